package domain

import "strings"

// Role is the single role an actor holds.
type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleCEO         Role = "CEO"
	RoleAdmin       Role = "ADMIN"
	RoleManager     Role = "MANAGER"
	RoleAccountant  Role = "ACCOUNTANT"
	RoleModerator   Role = "MODERATOR"
	RoleDeliveryman Role = "DELIVERYMAN"
	RoleCustomer    Role = "CUSTOMER"
)

var staffRoles = map[Role]struct{}{
	RoleSuperAdmin:  {},
	RoleCEO:         {},
	RoleAdmin:       {},
	RoleManager:     {},
	RoleAccountant:  {},
	RoleModerator:   {},
	RoleDeliveryman: {},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r.IsStaff()
}

// IsStaff reports whether r belongs to an operator rather than a customer.
func (r Role) IsStaff() bool {
	_, ok := staffRoles[r]
	return ok
}

// ParseRole normalizes and validates a role name.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	return role, role.Valid()
}

// Actor is the authenticated caller passed explicitly into every service call.
type Actor struct {
	ID   string
	Role Role
}
