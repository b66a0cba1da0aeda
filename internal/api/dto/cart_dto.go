package dto

import "github.com/spec-kit/grocery-service/internal/domain"

// CartItemRequest is used by both add (quantity optional, default 1) and set.
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  *int   `json:"quantity"`
}

// CartResponse carries the nested map the storefront renders plus a flat line list.
type CartResponse struct {
	Items domain.Cart       `json:"items"`
	Lines []domain.CartLine `json:"lines"`
}

// NewCartResponse maps a cart.
func NewCartResponse(cart domain.Cart) CartResponse {
	if cart == nil {
		cart = domain.Cart{}
	}
	lines := cart.Lines()
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponse{Items: cart, Lines: lines}
}
