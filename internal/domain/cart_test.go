package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddIncrements(t *testing.T) {
	cart := Cart{}
	require.NoError(t, cart.Add("A", "M", 1))
	require.NoError(t, cart.Add("A", "M", 2))
	require.NoError(t, cart.Add("A", "L", 1))

	assert.Equal(t, 3, cart.Quantity("A", "M"))
	assert.Equal(t, 1, cart.Quantity("A", "L"))
}

func TestCart_AddRejectsNonPositive(t *testing.T) {
	cart := Cart{}
	for _, qty := range []int{0, -1} {
		err := cart.Add("A", "M", qty)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.True(t, cart.IsEmpty())
}

func TestCart_Set(t *testing.T) {
	tests := []struct {
		name    string
		start   Cart
		qty     int
		want    Cart
		wantErr bool
	}{
		{name: "overwrite", start: Cart{"A": {"M": 5}}, qty: 2, want: Cart{"A": {"M": 2}}},
		{name: "create", start: Cart{}, qty: 4, want: Cart{"A": {"M": 4}}},
		{name: "zero removes product", start: Cart{"A": {"M": 5}}, qty: 0, want: Cart{}},
		{name: "zero keeps other sizes", start: Cart{"A": {"M": 5, "L": 1}}, qty: 0, want: Cart{"A": {"L": 1}}},
		{name: "zero on missing entry", start: Cart{}, qty: 0, want: Cart{}},
		{name: "negative", start: Cart{"A": {"M": 5}}, qty: -1, want: Cart{"A": {"M": 5}}, wantErr: true},
		{name: "at cap", start: Cart{}, qty: MaxQuantity, want: Cart{"A": {"M": MaxQuantity}}},
		{name: "over cap", start: Cart{"A": {"M": 5}}, qty: MaxQuantity + 1, want: Cart{"A": {"M": 5}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := tt.start.Clone()
			err := cart.Set("A", "M", tt.qty)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuantity)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, cart)
		})
	}
}

func TestCart_AddBoundsTheSum(t *testing.T) {
	cart := Cart{}
	require.NoError(t, cart.Add("A", "M", MaxQuantity-1))
	require.NoError(t, cart.Add("A", "M", 1))

	require.ErrorIs(t, cart.Add("A", "M", 1), ErrInvalidQuantity)
	require.ErrorIs(t, cart.Add("B", "M", math.MaxInt), ErrInvalidQuantity)
	assert.Equal(t, Cart{"A": {"M": MaxQuantity}}, cart)
}

func TestCart_SetZeroMakesPairAbsent(t *testing.T) {
	cart := Cart{"A": {"M": 2}, "B": {"L": 1}}
	require.NoError(t, cart.Set("B", "L", 0))

	_, ok := cart["B"]["L"]
	assert.False(t, ok)
	_, ok = cart["B"]
	assert.False(t, ok)
}

func TestCart_CloneIsDeep(t *testing.T) {
	cart := Cart{"A": {"M": 2}}
	snapshot := cart.Clone()
	require.NoError(t, cart.Add("A", "M", 1))

	assert.Equal(t, 2, snapshot.Quantity("A", "M"))
	assert.Equal(t, 3, cart.Quantity("A", "M"))
}

func TestCart_LinesSorted(t *testing.T) {
	cart := Cart{"B": {"L": 1}, "A": {"S": 3, "M": 2}}

	assert.Equal(t, []CartLine{
		{ProductID: "A", Size: "M", Quantity: 2},
		{ProductID: "A", Size: "S", Quantity: 3},
		{ProductID: "B", Size: "L", Quantity: 1},
	}, cart.Lines())
	assert.Equal(t, []ProductID{"A", "B"}, cart.ProductIDs())
}

func TestNewCart(t *testing.T) {
	cart, err := NewCart([]CartLine{
		{ProductID: "A", Size: "M", Quantity: 1},
		{ProductID: "A", Size: "M", Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, Cart{"A": {"M": 3}}, cart)

	_, err = NewCart([]CartLine{{ProductID: "A", Size: "M", Quantity: 0}})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewCart([]CartLine{
		{ProductID: "A", Size: "M", Quantity: math.MaxInt},
		{ProductID: "A", Size: "M", Quantity: 2},
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewCart([]CartLine{
		{ProductID: "A", Size: "M", Quantity: 600},
		{ProductID: "A", Size: "M", Quantity: 600},
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}
