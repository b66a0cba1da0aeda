package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grocery-service/internal/domain"
	apperrors "github.com/spec-kit/grocery-service/pkg/util/errorutil"
)

func TestCartService_AddAndSet(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	cart, err := f.cartSvc.GetCart(ctx, "fresh-user")
	require.NoError(t, err)
	assert.Empty(t, cart)

	cart, err = f.cartSvc.AddItem(ctx, customer.ID, "A", "M", 1)
	require.NoError(t, err)
	cart, err = f.cartSvc.AddItem(ctx, customer.ID, "A", "M", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Quantity("A", "M"))

	cart, err = f.cartSvc.SetItem(ctx, customer.ID, "A", "M", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Quantity("A", "M"))

	cart, err = f.cartSvc.SetItem(ctx, customer.ID, "A", "M", 0)
	require.NoError(t, err)
	_, present := cart["A"]
	assert.False(t, present)
}

func TestCartService_Validation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, customer.ID, "A", "M", 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.cartSvc.SetItem(ctx, customer.ID, "A", "M", -1)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.cartSvc.AddItem(ctx, customer.ID, "ZZZ", "M", 1)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.cartSvc.AddItem(ctx, customer.ID, "B", "XS", 1)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestCartService_QuantityCap(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.cartSvc.AddItem(ctx, customer.ID, "A", "M", math.MaxInt32+1)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = f.cartSvc.SetItem(ctx, customer.ID, "A", "M", domain.MaxQuantity+1)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.cartSvc.SetItem(ctx, customer.ID, "A", "M", domain.MaxQuantity)
	require.NoError(t, err)
	_, err = f.cartSvc.AddItem(ctx, customer.ID, "A", "M", 1)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "sum over the cap")

	cart, err := f.cartSvc.GetCart(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuantity, cart.Quantity("A", "M"))
}

func TestCartService_SetZeroOnRemovedProduct(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	_, err := f.cartSvc.AddItem(ctx, customer.ID, "B", "L", 1)
	require.NoError(t, err)
	delete(f.products.products, "B")

	cart, err := f.cartSvc.SetItem(ctx, customer.ID, "B", "L", 0)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_Clear(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)
	require.NoError(t, f.cartSvc.Clear(context.Background(), customer.ID))

	cart, err := f.cartSvc.GetCart(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Cart{}, cart)
}
