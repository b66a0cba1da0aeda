package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grocery-service/internal/domain"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// Action is a permission checked against the role matrix.
type Action string

const (
	ActionManageContent Action = "content:manage"
	ActionManageStaff   Action = "staff:manage"
	ActionManageOrders  Action = "orders:manage"
	ActionViewOrders    Action = "orders:view"
	ActionViewAnalytics Action = "analytics:view"
	ActionRiderOrders   Action = "orders:rider"
)

func roleSet(roles ...domain.Role) map[domain.Role]struct{} {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// permissions is the single role matrix. SUPER_ADMIN is handled in HasPermission.
var permissions = map[Action]map[domain.Role]struct{}{
	ActionManageContent: roleSet(domain.RoleCEO, domain.RoleAdmin, domain.RoleManager, domain.RoleModerator, domain.RoleDeliveryman),
	ActionManageStaff:   roleSet(domain.RoleCEO, domain.RoleAdmin),
	ActionManageOrders:  roleSet(domain.RoleCEO, domain.RoleAdmin, domain.RoleManager, domain.RoleModerator),
	ActionViewOrders:    roleSet(domain.RoleCEO, domain.RoleAdmin, domain.RoleManager, domain.RoleModerator, domain.RoleAccountant),
	ActionViewAnalytics: roleSet(domain.RoleCEO, domain.RoleAdmin, domain.RoleManager, domain.RoleModerator, domain.RoleAccountant),
	ActionRiderOrders:   roleSet(domain.RoleDeliveryman),
}

// HasPermission reports whether role may perform action.
func HasPermission(role domain.Role, action Action) bool {
	if role == domain.RoleSuperAdmin {
		return true
	}
	_, ok := permissions[action][role]
	return ok
}

// Authorize returns a FORBIDDEN error when role lacks action.
func Authorize(role domain.Role, action Action) error {
	if HasPermission(role, action) {
		return nil
	}
	return apperrors.NewForbidden("role " + string(role) + " may not perform " + string(action))
}

// RequirePermission lets through principals whose role grants any of the actions.
func RequirePermission(actions ...Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, action := range actions {
			if HasPermission(principal.Role, action) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}

// RequireCustomer ensures a customer account is authenticated.
func RequireCustomer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeUser {
			return apperrors.NewForbidden("customer account required")
		}
		return c.Next()
	}
}

// RequireStaff ensures a staff principal (including the super admin) is authenticated.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeStaff {
			return apperrors.NewForbidden("staff role required")
		}
		return c.Next()
	}
}
