package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/repository"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	ID          string
	Role        domain.Role
	User        *domain.User
	Staff       *domain.StaffMember
}

// Actor returns the explicit caller context handed to services.
func (p *Principal) Actor() domain.Actor {
	return domain.Actor{ID: p.ID, Role: p.Role}
}

// UserLookup loads customers referenced by tokens.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// StaffLookup loads staff referenced by tokens.
type StaffLookup interface {
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  UserLookup
	staff  StaffLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup, staff StaffLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, staff: staff}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	return m.authenticate(c)
}

// Optional authenticates when a bearer token is present and lets anonymous callers through.
// A present but invalid token is still rejected.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return c.Next()
	}
	return m.authenticate(c)
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) error {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal, err := m.resolve(c.UserContext(), claims)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *AuthMiddleware) resolve(ctx context.Context, claims *Claims) (*Principal, error) {
	principal := &Principal{SubjectType: claims.Subject, ID: claims.SubjectID, Role: claims.Role}

	switch claims.Subject {
	case domain.SubjectTypeUser:
		user, err := m.users.GetByID(ctx, claims.SubjectID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, apperrors.NewUnauthorized("user not found")
			}
			return nil, apperrors.MapError(err)
		}
		if user.Status != domain.UserStatusActive {
			return nil, apperrors.NewUnauthorized("user suspended")
		}
		principal.User = user
		principal.Role = domain.RoleCustomer
	case domain.SubjectTypeStaff:
		if claims.Role == domain.RoleSuperAdmin {
			if claims.SubjectID != domain.SuperAdminID {
				return nil, apperrors.NewUnauthorized("invalid token")
			}
			return principal, nil
		}
		staff, err := m.staff.GetByID(ctx, claims.SubjectID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, apperrors.NewUnauthorized("staff not found")
			}
			return nil, apperrors.MapError(err)
		}
		if !staff.Active {
			return nil, apperrors.NewUnauthorized("staff inactive")
		}
		principal.Staff = staff
		// The stored role wins over the token so role changes apply immediately.
		principal.Role = staff.Role
	default:
		return nil, apperrors.NewUnauthorized("unknown subject")
	}
	return principal, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
