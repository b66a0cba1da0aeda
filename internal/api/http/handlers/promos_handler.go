package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grocery-service/internal/api/dto"
	"github.com/spec-kit/grocery-service/internal/service"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// PromosHandler exposes promo code endpoints.
type PromosHandler struct {
	promos *service.PromoService
}

// NewPromosHandler constructs handler.
func NewPromosHandler(promos *service.PromoService) *PromosHandler {
	return &PromosHandler{promos: promos}
}

// Validate handles POST /promos/validate. Unknown codes answer valid=false.
func (h *PromosHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidatePromoRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.promos.Validate(c.UserContext(), req.Code)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// List handles GET /promos.
func (h *PromosHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	promos, err := h.promos.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	out := make([]dto.PromoResponse, 0, len(promos))
	for i := range promos {
		out = append(out, dto.NewPromoResponse(&promos[i]))
	}
	return respond(c, http.StatusOK, out)
}

// Create handles POST /promos.
func (h *PromosHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreatePromoRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	promo, err := h.promos.Create(c.UserContext(), actor, req.Code, req.Value)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewPromoResponse(promo))
}

// SetActive handles PATCH /promos/:code.
func (h *PromosHandler) SetActive(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SetPromoActiveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Active == nil {
		return apperrors.NewValidationError("active is required", nil)
	}
	promo, err := h.promos.SetActive(c.UserContext(), actor, c.Params("code"), *req.Active)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewPromoResponse(promo))
}

// Delete handles DELETE /promos/:code.
func (h *PromosHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.promos.Delete(c.UserContext(), actor, c.Params("code")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"deleted": true})
}
