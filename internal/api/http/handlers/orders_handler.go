package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grocery-service/internal/api/dto"
	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/service"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// OrdersHandler exposes checkout, the ledger and fulfillment actions.
type OrdersHandler struct {
	orders      *service.OrderService
	fulfillment *service.FulfillmentService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService, fulfillment *service.FulfillmentService) *OrdersHandler {
	return &OrdersHandler{orders: orders, fulfillment: fulfillment}
}

// Place handles POST /orders. Without a bearer token the order is a guest order.
func (h *OrdersHandler) Place(c *fiber.Ctx) error {
	var req dto.PlaceOrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.PlaceOrderInput{
		Address:        req.Address,
		Phone:          req.Phone,
		PromoCode:      req.PromoCode,
		IdempotencyKey: c.Get("Idempotency-Key"),
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		actor := principal.Actor()
		input.Actor = &actor
		if input.Phone == "" && principal.User != nil {
			input.Phone = principal.User.Phone
		}
	} else {
		input.Items = req.Items
	}

	order, err := h.orders.Place(c.UserContext(), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewOrderResponse(order))
}

// Track handles GET /orders/track?phone=.
func (h *OrdersHandler) Track(c *fiber.Ctx) error {
	orders, err := h.orders.TrackGuest(c.UserContext(), c.Query("phone"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewOrderResponses(orders))
}

// List handles GET /orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filter := service.OrderListFilter{
		Payment:     parseBool(c.Query("payment")),
		UserID:      optionalString(c.Query("user_id")),
		RiderID:     optionalString(c.Query("rider_id")),
		Phone:       optionalString(c.Query("phone")),
		CreatedFrom: parseTime(c.Query("created_from")),
		CreatedTo:   parseTime(c.Query("created_to")),
		Limit:       parseInt(c.Query("limit"), 0),
		Offset:      parseInt(c.Query("offset"), 0),
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(part)))
			if !status.Valid() {
				return apperrors.NewValidationError("unknown order status", map[string]any{"status": part})
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	orders, err := h.orders.List(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewOrderResponses(orders))
}

// Get handles GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewOrderResponse(order))
}

// History handles GET /orders/:id/history.
func (h *OrdersHandler) History(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	entries, err := h.fulfillment.History(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewOrderHistoryResponses(entries))
}

// SetStatus handles PATCH /orders/:id/status.
func (h *OrdersHandler) SetStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SetStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	status := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	order, err := h.fulfillment.SetStatus(c.UserContext(), actor, c.Params("id"), status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewOrderResponse(order))
}

// SetPayment handles PATCH /orders/:id/payment.
func (h *OrdersHandler) SetPayment(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SetPaymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Paid == nil {
		return apperrors.NewValidationError("paid is required", nil)
	}
	order, err := h.fulfillment.SetPayment(c.UserContext(), actor, c.Params("id"), *req.Paid)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewOrderResponse(order))
}

// AssignRider handles PATCH /orders/:id/rider.
func (h *OrdersHandler) AssignRider(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.AssignRiderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.RiderID) == "" {
		return apperrors.NewValidationError("rider_id is required", nil)
	}
	order, err := h.fulfillment.AssignRider(c.UserContext(), actor, c.Params("id"), strings.TrimSpace(req.RiderID))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewOrderResponse(order))
}

// Delete handles DELETE /orders/:id.
func (h *OrdersHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.orders.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, fiber.Map{"deleted": true})
}
