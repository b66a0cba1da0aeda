package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grocery-service/internal/api/dto"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/service"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// StaffHandler exposes staff login and account management.
type StaffHandler struct {
	authService  *service.AuthService
	staffService *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService, staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{authService: authService, staffService: staffService}
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	staff, session, err := h.authService.LoginStaff(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{
		"staff": dto.NewStaffResponse(staff),
		"auth":  dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
	})
}

// CreateStaff handles POST /staff.
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateStaffRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}

	staff, err := h.staffService.CreateStaffMember(c.UserContext(), actor, service.CreateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewStaffResponse(staff))
}

// ListStaff handles GET /staff.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filters := service.StaffListFilters{
		Active: parseBool(c.Query("active")),
		Limit:  parseInt(c.Query("limit"), 50),
		Offset: parseInt(c.Query("offset"), 0),
	}
	if raw := c.Query("role"); raw != "" {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": raw})
		}
		filters.Role = &role
	}

	staff, err := h.staffService.ListStaffMembers(c.UserContext(), actor, filters)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStaffResponses(staff))
}

// ListRiders handles GET /staff/riders.
func (h *StaffHandler) ListRiders(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	riders, err := h.staffService.ListRiders(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStaffResponses(riders))
}

// GetStaff handles GET /staff/:id.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	staff, err := h.staffService.GetStaffMemberByID(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStaffResponse(staff))
}

// UpdateRole handles PATCH /staff/:id/role.
func (h *StaffHandler) UpdateRole(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStaffRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}
	staff, err := h.staffService.UpdateStaffRole(c.UserContext(), actor, c.Params("id"), role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStaffResponse(staff))
}

// SetActive handles PATCH /staff/:id/active.
func (h *StaffHandler) SetActive(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SetStaffActiveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Active == nil {
		return apperrors.NewValidationError("active is required", nil)
	}
	staff, err := h.staffService.SetStaffActive(c.UserContext(), actor, c.Params("id"), *req.Active)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStaffResponse(staff))
}

// DeleteStaff handles DELETE /staff/:id.
func (h *StaffHandler) DeleteStaff(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.staffService.DeleteStaffMember(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"deleted": true})
}
