package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// CreatePromoRequest payload.
type CreatePromoRequest struct {
	Code  string          `json:"code"`
	Value decimal.Decimal `json:"value"`
}

// ValidatePromoRequest payload.
type ValidatePromoRequest struct {
	Code string `json:"code"`
}

// SetPromoActiveRequest payload.
type SetPromoActiveRequest struct {
	Active *bool `json:"active"`
}

// PromoResponse is the staff view of a code.
type PromoResponse struct {
	Code      string          `json:"code"`
	Value     decimal.Decimal `json:"value"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewPromoResponse maps a promo code.
func NewPromoResponse(promo *domain.PromoCode) PromoResponse {
	return PromoResponse{
		Code:      promo.Code,
		Value:     promo.Value,
		Active:    promo.Active,
		CreatedAt: promo.CreatedAt,
	}
}
