package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog view this service reads when pricing an order.
type Product struct {
	ID        ProductID
	Name      string
	Price     decimal.Decimal
	Sizes     []SizeLabel
	InStock   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OffersSize reports whether size is sold. A product without sizes accepts any label.
func (p *Product) OffersSize(size SizeLabel) bool {
	if len(p.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
