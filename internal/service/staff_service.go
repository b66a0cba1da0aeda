package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/repository"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

const minPasswordLength = 8

// StaffService manages operator accounts, riders included.
type StaffService struct {
	staff      repository.StaffRepository
	bcryptCost int
}

// StaffListFilters define listing parameters.
type StaffListFilters struct {
	Role   *domain.Role
	Active *bool
	Limit  int
	Offset int
}

// CreateStaffInput describes a new staff account.
type CreateStaffInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     domain.Role
}

// NewStaffService constructs the service.
func NewStaffService(staff repository.StaffRepository, bcryptCost int) *StaffService {
	return &StaffService{staff: staff, bcryptCost: bcryptCost}
}

// assignableRole rejects customer, unknown and SUPER_ADMIN roles.
func assignableRole(role domain.Role) error {
	if !role.IsStaff() || role == domain.RoleSuperAdmin {
		return apperrors.NewValidationError("role cannot be assigned to staff", map[string]any{"role": role})
	}
	return nil
}

// CreateStaffMember adds a new staff account.
func (s *StaffService) CreateStaffMember(ctx context.Context, actor domain.Actor, input CreateStaffInput) (*domain.StaffMember, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageStaff); err != nil {
		return nil, err
	}
	if err := assignableRole(input.Role); err != nil {
		return nil, err
	}
	email, err := validateAccount(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("staff email already exists", map[string]any{"email": email})
	} else if !repository.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	staff := &domain.StaffMember{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("staff email already exists", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// ListStaffMembers lists staff with filters.
func (s *StaffService) ListStaffMembers(ctx context.Context, actor domain.Actor, filters StaffListFilters) ([]domain.StaffMember, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageStaff); err != nil {
		return nil, err
	}
	staff, err := s.staff.List(ctx, repository.StaffFilter{
		Role:   filters.Role,
		Active: filters.Active,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// ListRiders returns active deliverymen, for picking an assignee.
func (s *StaffService) ListRiders(ctx context.Context, actor domain.Actor) ([]domain.StaffMember, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageOrders); err != nil {
		return nil, err
	}
	role := domain.RoleDeliveryman
	riders, err := s.staff.List(ctx, repository.StaffFilter{Role: &role, Active: ptrBool(true)})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return riders, nil
}

// GetStaffMemberByID fetches staff.
func (s *StaffService) GetStaffMemberByID(ctx context.Context, actor domain.Actor, id string) (*domain.StaffMember, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageStaff); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// UpdateStaffRole changes the role of a staff member.
func (s *StaffService) UpdateStaffRole(ctx context.Context, actor domain.Actor, id string, role domain.Role) (*domain.StaffMember, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageStaff); err != nil {
		return nil, err
	}
	if err := assignableRole(role); err != nil {
		return nil, err
	}
	staff, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	staff.Role = role
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// SetStaffActive enables or disables a staff account. Disabled accounts can no longer authenticate.
func (s *StaffService) SetStaffActive(ctx context.Context, actor domain.Actor, id string, active bool) (*domain.StaffMember, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageStaff); err != nil {
		return nil, err
	}
	if id == actor.ID && !active {
		return nil, apperrors.NewValidationError("cannot deactivate own account", nil)
	}
	staff, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	staff.Active = active
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// DeleteStaffMember removes a staff account.
func (s *StaffService) DeleteStaffMember(ctx context.Context, actor domain.Actor, id string) error {
	if err := auth.Authorize(actor.Role, auth.ActionManageStaff); err != nil {
		return err
	}
	if id == actor.ID {
		return apperrors.NewValidationError("cannot delete own account", nil)
	}
	if err := s.staff.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *StaffService) load(ctx context.Context, id string) (*domain.StaffMember, error) {
	if id == domain.SuperAdminID {
		return nil, apperrors.NewForbidden("super admin is not a managed account")
	}
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// validateAccount checks the common account fields and returns the normalized email.
func validateAccount(name, email, password string) (string, error) {
	details := map[string]any{}
	if strings.TrimSpace(name) == "" {
		details["name"] = "required"
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(normalized); err != nil || normalized == "" {
		details["email"] = "invalid"
	}
	if len(password) < minPasswordLength {
		details["password"] = "too short"
	}
	if len(details) > 0 {
		return "", apperrors.NewValidationError("invalid account fields", details)
	}
	return normalized, nil
}
