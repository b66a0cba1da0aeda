package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grocery-service/internal/domain"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

func TestApplyDiscount(t *testing.T) {
	cases := []struct {
		subtotal, value, want string
	}{
		{"50", "70", "50"},
		{"50", "20", "20"},
		{"50", "50", "50"},
		{"0", "5", "0"},
		{"50", "-5", "0"},
	}
	for _, tc := range cases {
		got := ApplyDiscount(dec(tc.subtotal), dec(tc.value))
		assert.True(t, got.Equal(dec(tc.want)), "apply(%s, %s) = %s", tc.subtotal, tc.value, got)
	}
}

func TestPromo_Validate(t *testing.T) {
	svc := NewPromoService(newFakePromoRepo(
		domain.PromoCode{Code: "SAVE5", Value: dec("5"), Active: true},
		domain.PromoCode{Code: "OLD", Value: dec("3"), Active: false},
	))
	ctx := context.Background()

	res, err := svc.Validate(ctx, "BADCODE")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = svc.Validate(ctx, "old")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = svc.Validate(ctx, "")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = svc.Validate(ctx, " save5 ")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.True(t, res.Value.Equal(dec("5")))
}

func TestPromo_Create(t *testing.T) {
	repo := newFakePromoRepo()
	svc := NewPromoService(repo)
	ctx := context.Background()

	promo, err := svc.Create(ctx, admin, " summer ", dec("7.5"))
	require.NoError(t, err)
	assert.Equal(t, "SUMMER", promo.Code)
	assert.True(t, promo.Active)

	_, err = svc.Create(ctx, admin, "Summer", dec("1"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateCode))

	_, err = svc.Create(ctx, admin, "   ", dec("1"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.Create(ctx, admin, "ZERO", decimal.Zero)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.Create(ctx, domain.Actor{ID: "a", Role: domain.RoleAccountant}, "ACCT", dec("1"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = svc.Create(ctx, customer, "CUST", dec("1"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestPromo_SetActiveAndDelete(t *testing.T) {
	svc := NewPromoService(newFakePromoRepo(domain.PromoCode{Code: "SAVE5", Value: dec("5"), Active: true}))
	ctx := context.Background()

	promo, err := svc.SetActive(ctx, admin, "save5", false)
	require.NoError(t, err)
	assert.False(t, promo.Active)

	res, err := svc.Validate(ctx, "SAVE5")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	_, err = svc.SetActive(ctx, admin, "NOPE", true)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	list, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, admin, "SAVE5"))
	assert.True(t, apperrors.HasCode(svc.Delete(ctx, admin, "SAVE5"), apperrors.CodeNotFound))
}
