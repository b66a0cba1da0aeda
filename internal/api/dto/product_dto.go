package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// ProductResponse is the storefront view of a catalog item.
type ProductResponse struct {
	ID      domain.ProductID   `json:"id"`
	Name    string             `json:"name"`
	Price   decimal.Decimal    `json:"price"`
	Sizes   []domain.SizeLabel `json:"sizes"`
	InStock bool               `json:"in_stock"`
}

// NewProductResponse maps a product.
func NewProductResponse(p *domain.Product) ProductResponse {
	sizes := p.Sizes
	if sizes == nil {
		sizes = []domain.SizeLabel{}
	}
	return ProductResponse{ID: p.ID, Name: p.Name, Price: p.Price, Sizes: sizes, InStock: p.InStock}
}
