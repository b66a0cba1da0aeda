package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/repository"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

// PromoService manages flat-amount discount codes.
type PromoService struct {
	promos repository.PromoRepository
}

// NewPromoService constructs the service.
func NewPromoService(promos repository.PromoRepository) *PromoService {
	return &PromoService{promos: promos}
}

// ApplyDiscount returns min(value, subtotal), never negative.
func ApplyDiscount(subtotal, value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() || subtotal.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(value, subtotal)
}

// Create registers a new active code.
func (s *PromoService) Create(ctx context.Context, actor domain.Actor, code string, value decimal.Decimal) (*domain.PromoCode, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageContent); err != nil {
		return nil, err
	}
	normalized := domain.NormalizePromoCode(code)
	if normalized == "" {
		return nil, apperrors.NewValidationError("code is required", nil)
	}
	if !value.IsPositive() {
		return nil, apperrors.NewValidationError("value must be positive", map[string]any{"value": value.String()})
	}

	if _, err := s.promos.GetByCode(ctx, normalized); err == nil {
		return nil, apperrors.NewDuplicateCode(normalized)
	} else if !repository.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}

	promo := &domain.PromoCode{Code: normalized, Value: value, Active: true}
	if err := s.promos.Create(ctx, promo); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewDuplicateCode(normalized)
		}
		return nil, apperrors.MapError(err)
	}
	return promo, nil
}

// Validate never fails for unknown or inactive codes; it reports valid=false instead.
func (s *PromoService) Validate(ctx context.Context, code string) (domain.PromoValidation, error) {
	normalized := domain.NormalizePromoCode(code)
	if normalized == "" {
		return domain.PromoValidation{Value: decimal.Zero}, nil
	}
	promo, err := s.promos.GetByCode(ctx, normalized)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.PromoValidation{Value: decimal.Zero}, nil
		}
		return domain.PromoValidation{}, apperrors.MapError(err)
	}
	if !promo.Active {
		return domain.PromoValidation{Value: decimal.Zero}, nil
	}
	return domain.PromoValidation{Valid: true, Value: promo.Value}, nil
}

// List returns every code.
func (s *PromoService) List(ctx context.Context, actor domain.Actor) ([]domain.PromoCode, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageContent); err != nil {
		return nil, err
	}
	promos, err := s.promos.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return promos, nil
}

// SetActive toggles whether a code can be redeemed.
func (s *PromoService) SetActive(ctx context.Context, actor domain.Actor, code string, active bool) (*domain.PromoCode, error) {
	if err := auth.Authorize(actor.Role, auth.ActionManageContent); err != nil {
		return nil, err
	}
	normalized := domain.NormalizePromoCode(code)
	if err := s.promos.SetActive(ctx, normalized, active); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("promo code", map[string]any{"code": normalized})
		}
		return nil, apperrors.MapError(err)
	}
	promo, err := s.promos.GetByCode(ctx, normalized)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return promo, nil
}

// Delete removes a code.
func (s *PromoService) Delete(ctx context.Context, actor domain.Actor, code string) error {
	if err := auth.Authorize(actor.Role, auth.ActionManageContent); err != nil {
		return err
	}
	normalized := domain.NormalizePromoCode(code)
	if err := s.promos.Delete(ctx, normalized); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewNotFound("promo code", map[string]any{"code": normalized})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// resolve returns the discount value for code, failing when the code cannot be redeemed.
func (s *PromoService) resolve(ctx context.Context, code string) (*domain.PromoCode, error) {
	normalized := domain.NormalizePromoCode(code)
	promo, err := s.promos.GetByCode(ctx, normalized)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewValidationError("promo code is not valid", map[string]any{"code": normalized})
		}
		return nil, apperrors.MapError(err)
	}
	if !promo.Active {
		return nil, apperrors.NewValidationError("promo code is not valid", map[string]any{"code": normalized})
	}
	return promo, nil
}
