package domain

import "time"

// SuperAdminID is the fixed subject id of the credential-configured super admin.
const SuperAdminID = "superadmin"

// StaffMember models an operator account: office staff or a rider.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor returns the explicit caller context for this staff member.
func (s *StaffMember) Actor() Actor {
	return Actor{ID: s.ID, Role: s.Role}
}
