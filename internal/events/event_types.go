package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderPlaced           EventType = "order_placed"
	EventOrderStatusChanged    EventType = "order_status_changed"
	EventOrderPaymentCollected EventType = "order_payment_collected"
	EventOrderRiderAssigned    EventType = "order_rider_assigned"
	EventOrderDeleted          EventType = "order_deleted"
)

// OrderEventTypes lists every order lifecycle event.
var OrderEventTypes = []EventType{
	EventOrderPlaced,
	EventOrderStatusChanged,
	EventOrderPaymentCollected,
	EventOrderRiderAssigned,
	EventOrderDeleted,
}

// Actor encapsulates actor metadata for an event. Guest placements have no actor id.
type Actor struct {
	ID   *string     `json:"id,omitempty"`
	Role domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	UserID    *string         `json:"user_id,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	ItemCount int             `json:"item_count"`
	PromoCode *string         `json:"promo_code,omitempty"`
}

// OrderStatusChangedPayload payload. UserID and Phone address the customer.
type OrderStatusChangedPayload struct {
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
	UserID    *string            `json:"user_id,omitempty"`
	Phone     string             `json:"phone,omitempty"`
}

// OrderPaymentCollectedPayload payload.
type OrderPaymentCollectedPayload struct {
	Amount decimal.Decimal `json:"amount"`
}

// OrderRiderAssignedPayload payload.
type OrderRiderAssignedPayload struct {
	OldRiderID *string            `json:"old_rider_id,omitempty"`
	RiderID    string             `json:"rider_id"`
	OldStatus  domain.OrderStatus `json:"old_status"`
	NewStatus  domain.OrderStatus `json:"new_status"`
	Phone      string             `json:"phone,omitempty"`
	Amount     decimal.Decimal    `json:"amount"`
	Paid       bool               `json:"paid"`
}
