package service

import (
	"context"

	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/repository"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// CatalogService is the read-only product lookup used by the storefront.
type CatalogService struct {
	products repository.ProductRepository
}

// NewCatalogService constructs the service.
func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return product, nil
}
