package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates fulfillment states.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "PLACED"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusReturned       OrderStatus = "RETURNED"
)

// PaymentMethodCOD is the only payment method: cash collected by the rider.
const PaymentMethodCOD = "COD"

var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:         {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:     {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusOutForDelivery, OrderStatusReturned, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusReturned, OrderStatusCancelled},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
	OrderStatusReturned:       {},
}

// RiderStatuses are the only statuses a deliveryman may set.
var RiderStatuses = []OrderStatus{
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusReturned,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	next, ok := allowedTransitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether the state machine allows from -> to.
// Re-applying the current status is allowed.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return to.Valid()
	}
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// IsRiderStatus reports whether a deliveryman may request s.
func IsRiderStatus(s OrderStatus) bool {
	for _, candidate := range RiderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Address is the delivery destination copied onto the order.
type Address struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// OrderLine is a priced cart line frozen at placement time.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID ProductID
	Name      string
	Size      SizeLabel
	Price     decimal.Decimal
	Quantity  int
}

// Total is price * quantity.
func (l OrderLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the financial record produced by placement.
type Order struct {
	ID            string
	UserID        *string
	Phone         string
	Address       Address
	Items         []OrderLine
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Discount      decimal.Decimal
	PromoCode     *string
	Amount        decimal.Decimal
	Status        OrderStatus
	Payment       bool
	PaymentMethod string
	RiderID       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsGuest reports whether the order was placed without an account.
func (o *Order) IsGuest() bool {
	return o.UserID == nil
}

// AssignedTo reports whether riderID is the order's rider.
func (o *Order) AssignedTo(riderID string) bool {
	return o.RiderID != nil && *o.RiderID == riderID
}

// OrderSubtotal sums price * quantity across lines.
func OrderSubtotal(lines []OrderLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total())
	}
	return subtotal
}

// OrderAmount is subtotal + deliveryFee - discount, floored at zero.
func OrderAmount(subtotal, deliveryFee, discount decimal.Decimal) decimal.Decimal {
	amount := subtotal.Add(deliveryFee).Sub(discount)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
