package dto

import (
	"time"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateStaffRoleRequest payload.
type UpdateStaffRoleRequest struct {
	Role string `json:"role"`
}

// SetStaffActiveRequest payload.
type SetStaffActiveRequest struct {
	Active *bool `json:"active"`
}

// StaffResponse is the public view of a staff member.
type StaffResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
}

// NewStaffResponse maps a domain staff member.
func NewStaffResponse(staff *domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:        staff.ID,
		Name:      staff.Name,
		Email:     staff.Email,
		Phone:     staff.Phone,
		Role:      staff.Role,
		Active:    staff.Active,
		CreatedAt: staff.CreatedAt,
	}
}

// NewStaffResponses maps a list.
func NewStaffResponses(staff []domain.StaffMember) []StaffResponse {
	out := make([]StaffResponse, 0, len(staff))
	for i := range staff {
		out = append(out, NewStaffResponse(&staff[i]))
	}
	return out
}
