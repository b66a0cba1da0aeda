package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grocery-service/internal/api/dto"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/service"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// CartHandler serves the signed-in customer's cart.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler constructs handler.
func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart handles GET /cart.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	cart, err := h.carts.GetCart(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCartResponse(cart))
}

// AddItem handles POST /cart/items. Quantity defaults to 1.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req, err := parseCartItem(c)
	if err != nil {
		return err
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	cart, err := h.carts.AddItem(c.UserContext(), actor.ID, domain.ProductID(req.ProductID), domain.SizeLabel(req.Size), qty)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCartResponse(cart))
}

// SetItem handles PUT /cart/items.
func (h *CartHandler) SetItem(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	req, err := parseCartItem(c)
	if err != nil {
		return err
	}
	if req.Quantity == nil {
		return apperrors.NewValidationError("quantity is required", nil)
	}
	cart, err := h.carts.SetItem(c.UserContext(), actor.ID, domain.ProductID(req.ProductID), domain.SizeLabel(req.Size), *req.Quantity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCartResponse(cart))
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.carts.Clear(c.UserContext(), actor.ID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCartResponse(domain.Cart{}))
}

func parseCartItem(c *fiber.Ctx) (dto.CartItemRequest, error) {
	var req dto.CartItemRequest
	if err := parseBody(c, &req); err != nil {
		return req, err
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		return req, apperrors.NewValidationError("product_id is required", nil)
	}
	return req, nil
}
