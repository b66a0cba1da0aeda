package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// PlaceOrderRequest payload. Items are read only for guest checkout; signed-in
// customers check out their stored cart.
type PlaceOrderRequest struct {
	Address   domain.Address    `json:"address"`
	Phone     string            `json:"phone"`
	PromoCode string            `json:"promo_code"`
	Items     []domain.CartLine `json:"items"`
}

// SetStatusRequest payload.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// SetPaymentRequest payload.
type SetPaymentRequest struct {
	Paid *bool `json:"paid"`
}

// AssignRiderRequest payload.
type AssignRiderRequest struct {
	RiderID string `json:"rider_id"`
}

// OrderLineResponse is one frozen line.
type OrderLineResponse struct {
	ProductID domain.ProductID `json:"product_id"`
	Name      string           `json:"name"`
	Size      domain.SizeLabel `json:"size"`
	Price     decimal.Decimal  `json:"price"`
	Quantity  int              `json:"quantity"`
	Total     decimal.Decimal  `json:"total"`
}

// OrderResponse is the full order document.
type OrderResponse struct {
	ID            string              `json:"id"`
	UserID        *string             `json:"user_id"`
	Phone         string              `json:"phone,omitempty"`
	Address       domain.Address      `json:"address"`
	Items         []OrderLineResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Discount      decimal.Decimal     `json:"discount"`
	PromoCode     *string             `json:"promo_code"`
	Amount        decimal.Decimal     `json:"amount"`
	Status        domain.OrderStatus  `json:"status"`
	Payment       bool                `json:"payment"`
	PaymentMethod string              `json:"payment_method"`
	RiderID       *string             `json:"rider_id"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderHistoryResponse is one audit entry.
type OrderHistoryResponse struct {
	ID          string                 `json:"id"`
	ChangedByID *string                `json:"changed_by_id"`
	ChangedRole *domain.Role           `json:"changed_role"`
	ChangeType  domain.OrderChangeType `json:"change_type"`
	OldValue    map[string]any         `json:"old_value"`
	NewValue    map[string]any         `json:"new_value"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderLineResponse, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, OrderLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Total:     line.Total(),
		})
	}
	return OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		Phone:         order.Phone,
		Address:       order.Address,
		Items:         items,
		Subtotal:      order.Subtotal,
		DeliveryFee:   order.DeliveryFee,
		Discount:      order.Discount,
		PromoCode:     order.PromoCode,
		Amount:        order.Amount,
		Status:        order.Status,
		Payment:       order.Payment,
		PaymentMethod: order.PaymentMethod,
		RiderID:       order.RiderID,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// NewOrderResponses maps a list.
func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

// NewOrderHistoryResponses maps audit entries.
func NewOrderHistoryResponses(entries []domain.OrderHistory) []OrderHistoryResponse {
	out := make([]OrderHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, OrderHistoryResponse{
			ID:          entry.ID,
			ChangedByID: entry.ChangedByID,
			ChangedRole: entry.ChangedRole,
			ChangeType:  entry.ChangeType,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return out
}
