package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/config"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/repository"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users          repository.UserRepository
	staff          repository.StaffRepository
	tokenMgr       *auth.TokenManager
	bcryptCost     int
	superAdminMail string
	superAdminHash string
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	StaffRepo repository.StaffRepository
	Tokens    *auth.TokenManager
}

// RegisterUserInput describes a storefront sign-up.
type RegisterUserInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Session is an issued access token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service. The super admin password is hashed once here
// and never stored.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	svc := &AuthService{
		users:      deps.UserRepo,
		staff:      deps.StaffRepo,
		tokenMgr:   deps.Tokens,
		bcryptCost: cfg.BcryptCost,
	}
	if cfg.SuperAdminEmail != "" && cfg.SuperAdminPassword != "" {
		hash, err := auth.HashPassword(cfg.SuperAdminPassword, cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		svc.superAdminMail = strings.ToLower(strings.TrimSpace(cfg.SuperAdminEmail))
		svc.superAdminHash = hash
	}
	return svc, nil
}

// RegisterUser creates a new customer account and signs it in.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, Session, error) {
	email, err := validateAccount(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, Session{}, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, Session{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !repository.IsNotFound(err) {
		return nil, Session{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, Session{}, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Session{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, Session{}, apperrors.MapError(err)
	}

	session, err := s.issue(user.ID, domain.SubjectTypeUser, domain.RoleCustomer)
	if err != nil {
		return nil, Session{}, err
	}
	return user, session, nil
}

// LoginUser authenticates a customer.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, Session{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, Session{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, Session{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, Session{}, apperrors.NewForbidden("account suspended")
	}
	session, err := s.issue(user.ID, domain.SubjectTypeUser, domain.RoleCustomer)
	if err != nil {
		return nil, Session{}, err
	}
	return user, session, nil
}

// LoginStaff authenticates staff, or the configured super admin, and returns a role-bearing token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*domain.StaffMember, Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.superAdminHash != "" && email == s.superAdminMail {
		if err := auth.ComparePassword(s.superAdminHash, password); err != nil {
			return nil, Session{}, apperrors.NewUnauthorized("invalid credentials")
		}
		admin := &domain.StaffMember{
			ID:     domain.SuperAdminID,
			Name:   "Super Admin",
			Email:  s.superAdminMail,
			Role:   domain.RoleSuperAdmin,
			Active: true,
		}
		session, err := s.issue(admin.ID, domain.SubjectTypeStaff, admin.Role)
		if err != nil {
			return nil, Session{}, err
		}
		return admin, session, nil
	}

	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, Session{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, Session{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, Session{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !staff.Active {
		return nil, Session{}, apperrors.NewForbidden("staff inactive")
	}
	session, err := s.issue(staff.ID, domain.SubjectTypeStaff, staff.Role)
	if err != nil {
		return nil, Session{}, err
	}
	return staff, session, nil
}

func (s *AuthService) issue(subjectID string, subject domain.SubjectType, role domain.Role) (Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(subjectID, subject, role)
	if err != nil {
		return Session{}, apperrors.NewInternalError(err)
	}
	return Session{Token: token, ExpiresAt: exp}, nil
}
