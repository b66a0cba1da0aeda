package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/config"
	"github.com/spec-kit/grocery-service/internal/domain"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

func newAuthFixture(t *testing.T) (*AuthService, *StaffService, *fakeStaffRepo, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", 5)
	staffRepo := newFakeStaffRepo()
	svc, err := NewAuthService(config.AuthConfig{
		BcryptCost:         bcrypt.MinCost,
		SuperAdminEmail:    "Root@Example.com",
		SuperAdminPassword: "super-secret",
	}, AuthDependencies{
		UserRepo:  &fakeUserRepo{users: map[string]domain.User{}},
		StaffRepo: staffRepo,
		Tokens:    tokens,
	})
	require.NoError(t, err)
	return svc, NewStaffService(staffRepo, bcrypt.MinCost), staffRepo, tokens
}

func TestAuth_RegisterAndLoginUser(t *testing.T) {
	svc, _, _, tokens := newAuthFixture(t)
	ctx := context.Background()

	user, session, err := svc.RegisterUser(ctx, RegisterUserInput{Name: "Ada", Email: " Ada@Example.com ", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	claims, err := tokens.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)

	_, _, err = svc.RegisterUser(ctx, RegisterUserInput{Name: "Ada", Email: "ada@example.com", Password: "password1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, _, err = svc.RegisterUser(ctx, RegisterUserInput{Name: "", Email: "bad", Password: "short"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, _, err = svc.LoginUser(ctx, "ada@example.com", "password1")
	require.NoError(t, err)

	_, _, err = svc.LoginUser(ctx, "ada@example.com", "wrong-pass")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	_, _, err = svc.LoginUser(ctx, "nobody@example.com", "password1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestAuth_SuperAdminLogin(t *testing.T) {
	svc, _, _, tokens := newAuthFixture(t)

	admin, session, err := svc.LoginStaff(context.Background(), "root@example.com", "super-secret")
	require.NoError(t, err)
	assert.Equal(t, domain.SuperAdminID, admin.ID)

	claims, err := tokens.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, claims.Role)
	assert.Equal(t, domain.SubjectTypeStaff, claims.Subject)

	_, _, err = svc.LoginStaff(context.Background(), "root@example.com", "nope")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestStaff_LifecycleAndLogin(t *testing.T) {
	authSvc, staffSvc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	superAdmin := domain.Actor{ID: domain.SuperAdminID, Role: domain.RoleSuperAdmin}

	member, err := staffSvc.CreateStaffMember(ctx, superAdmin, CreateStaffInput{
		Name: "Rita Rider", Email: "rita@example.com", Password: "password1", Role: domain.RoleDeliveryman,
	})
	require.NoError(t, err)
	assert.True(t, member.Active)

	_, session, err := authSvc.LoginStaff(ctx, "rita@example.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	riders, err := staffSvc.ListRiders(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, riders, 1)

	updated, err := staffSvc.UpdateStaffRole(ctx, admin, member.ID, domain.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)

	_, err = staffSvc.SetStaffActive(ctx, admin, member.ID, false)
	require.NoError(t, err)
	_, _, err = authSvc.LoginStaff(ctx, "rita@example.com", "password1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	require.NoError(t, staffSvc.DeleteStaffMember(ctx, admin, member.ID))
	_, err = staffSvc.GetStaffMemberByID(ctx, admin, member.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestStaff_RoleRules(t *testing.T) {
	_, staffSvc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	input := CreateStaffInput{Name: "X", Email: "x@example.com", Password: "password1", Role: domain.RoleManager}

	for _, role := range []domain.Role{domain.RoleManager, domain.RoleAccountant, domain.RoleDeliveryman, domain.RoleCustomer} {
		_, err := staffSvc.CreateStaffMember(ctx, domain.Actor{ID: "x", Role: role}, input)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), role)
	}

	for _, role := range []domain.Role{domain.RoleSuperAdmin, domain.RoleCustomer, "JANITOR"} {
		bad := input
		bad.Role = role
		_, err := staffSvc.CreateStaffMember(ctx, admin, bad)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), role)
	}

	_, err := staffSvc.CreateStaffMember(ctx, domain.Actor{ID: "ceo", Role: domain.RoleCEO}, input)
	require.NoError(t, err)
	_, err = staffSvc.CreateStaffMember(ctx, admin, input)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = staffSvc.UpdateStaffRole(ctx, admin, domain.SuperAdminID, domain.RoleAdmin)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}
