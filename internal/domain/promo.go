package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PromoCode is a named flat-amount discount.
type PromoCode struct {
	ID        string
	Code      string
	Value     decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PromoValidation is the customer-facing result of checking a code.
type PromoValidation struct {
	Valid bool            `json:"valid"`
	Value decimal.Decimal `json:"value"`
}

// NormalizePromoCode trims and upper-cases a code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
