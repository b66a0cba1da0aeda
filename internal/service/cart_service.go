package service

import (
	"context"
	"errors"

	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/repository"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// CartService maintains the per-customer quantity map.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// CartDependencies bundles repositories for the cart service.
type CartDependencies struct {
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
}

// NewCartService constructs the service.
func NewCartService(deps CartDependencies) *CartService {
	return &CartService{
		carts:    deps.CartRepo,
		products: deps.ProductRepo,
	}
}

// AddItem increments the quantity of (productID, size) and returns the full cart.
func (s *CartService) AddItem(ctx context.Context, userID string, productID domain.ProductID, size domain.SizeLabel, qty int) (domain.Cart, error) {
	if qty < 1 || qty > domain.MaxQuantity {
		return nil, quantityError(qty)
	}
	if err := s.checkProduct(ctx, productID, size); err != nil {
		return nil, err
	}
	if err := s.carts.Add(ctx, userID, productID, size, qty); err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) {
			return nil, apperrors.NewValidationError("quantity would exceed the per-item limit", map[string]any{
				"quantity": qty,
				"max":      domain.MaxQuantity,
			})
		}
		return nil, apperrors.MapError(err)
	}
	return s.GetCart(ctx, userID)
}

// SetItem overwrites the quantity; zero removes the entry.
func (s *CartService) SetItem(ctx context.Context, userID string, productID domain.ProductID, size domain.SizeLabel, qty int) (domain.Cart, error) {
	if qty < 0 || qty > domain.MaxQuantity {
		return nil, quantityError(qty)
	}
	// Removing a line must work even after the product left the catalog.
	if qty > 0 {
		if err := s.checkProduct(ctx, productID, size); err != nil {
			return nil, err
		}
	}
	if err := s.carts.Set(ctx, userID, productID, size, qty); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.GetCart(ctx, userID)
}

// GetCart returns the stored cart, empty when the user never added anything.
func (s *CartService) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if cart == nil {
		cart = domain.Cart{}
	}
	return cart, nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.carts.Clear(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func quantityError(qty int) error {
	return apperrors.NewValidationError("quantity out of range", map[string]any{
		"quantity": qty,
		"max":      domain.MaxQuantity,
	})
}

func (s *CartService) checkProduct(ctx context.Context, productID domain.ProductID, size domain.SizeLabel) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewNotFound("product", map[string]any{"product_id": productID})
		}
		return apperrors.MapError(err)
	}
	if !product.OffersSize(size) {
		return apperrors.NewValidationError("size not offered", map[string]any{"product_id": productID, "size": size})
	}
	return nil
}
