package domain

import (
	"errors"
	"sort"
)

// ProductID identifies a catalog product.
type ProductID string

// SizeLabel is a size or variant label such as "500g" or "L".
type SizeLabel string

// MaxQuantity caps a single (product, size) line.
const MaxQuantity = 1000

// ErrInvalidQuantity is returned when a cart mutation would store a quantity
// outside 1..MaxQuantity.
var ErrInvalidQuantity = errors.New("invalid quantity")

// Cart maps product -> size -> quantity. Stored quantities are always in 1..MaxQuantity.
type Cart map[ProductID]map[SizeLabel]int

// CartLine is one flattened (product, size, quantity) entry.
type CartLine struct {
	ProductID ProductID `json:"product_id"`
	Size      SizeLabel `json:"size"`
	Quantity  int       `json:"quantity"`
}

// NewCart builds a cart from lines, rejecting non-positive quantities.
// Duplicate (product, size) lines are summed.
func NewCart(lines []CartLine) (Cart, error) {
	cart := Cart{}
	for _, line := range lines {
		if err := cart.Add(line.ProductID, line.Size, line.Quantity); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// Add increments the quantity for (productID, size). Both qty and the
// resulting total must stay within 1..MaxQuantity.
func (c Cart) Add(productID ProductID, size SizeLabel, qty int) error {
	if qty < 1 || qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	if c.Quantity(productID, size) > MaxQuantity-qty {
		return ErrInvalidQuantity
	}
	sizes, ok := c[productID]
	if !ok {
		sizes = map[SizeLabel]int{}
		c[productID] = sizes
	}
	sizes[size] += qty
	return nil
}

// Set overwrites the quantity for (productID, size). Zero removes the entry.
func (c Cart) Set(productID ProductID, size SizeLabel, qty int) error {
	if qty < 0 || qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	if qty == 0 {
		if sizes, ok := c[productID]; ok {
			delete(sizes, size)
			if len(sizes) == 0 {
				delete(c, productID)
			}
		}
		return nil
	}
	sizes, ok := c[productID]
	if !ok {
		sizes = map[SizeLabel]int{}
		c[productID] = sizes
	}
	sizes[size] = qty
	return nil
}

// Quantity returns the stored quantity or zero.
func (c Cart) Quantity(productID ProductID, size SizeLabel) int {
	return c[productID][size]
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Clone deep-copies the cart so a snapshot cannot be mutated through the original.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for productID, sizes := range c {
		copied := make(map[SizeLabel]int, len(sizes))
		for size, qty := range sizes {
			copied[size] = qty
		}
		out[productID] = copied
	}
	return out
}

// Lines flattens the cart ordered by product then size.
func (c Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c))
	for productID, sizes := range c {
		for size, qty := range sizes {
			lines = append(lines, CartLine{ProductID: productID, Size: size, Quantity: qty})
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].Size < lines[j].Size
	})
	return lines
}

// ProductIDs returns the distinct product ids in the cart, sorted.
func (c Cart) ProductIDs() []ProductID {
	ids := make([]ProductID, 0, len(c))
	for productID := range c {
		ids = append(ids, productID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
