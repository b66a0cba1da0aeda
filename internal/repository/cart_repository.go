package repository

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// CartRepository stores one cart per customer as (product, size) rows.
// Writes are unconditional; concurrent writers converge last-write-wins.
type CartRepository interface {
	Get(ctx context.Context, userID string) (domain.Cart, error)
	Add(ctx context.Context, userID string, productID domain.ProductID, size domain.SizeLabel, qty int) error
	Set(ctx context.Context, userID string, productID domain.ProductID, size domain.SizeLabel, qty int) error
	Clear(ctx context.Context, userID string) error
}

type cartRepository struct {
	db DBTX
}

// NewCartRepository returns a Postgres-backed cart store.
func NewCartRepository(db DBTX) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Get(ctx context.Context, userID string) (domain.Cart, error) {
	const query = `SELECT product_id, size, quantity FROM cart_items WHERE user_id=$1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	defer rows.Close()

	cart := domain.Cart{}
	for rows.Next() {
		var (
			productID, size string
			qty             int
		)
		if err := rows.Scan(&productID, &size, &qty); err != nil {
			return nil, errors.Wrap(err, "scan cart item")
		}
		if qty <= 0 {
			continue
		}
		if err := cart.Set(domain.ProductID(productID), domain.SizeLabel(size), qty); err != nil {
			return nil, err
		}
	}
	return cart, rows.Err()
}

func (r *cartRepository) Add(ctx context.Context, userID string, productID domain.ProductID, size domain.SizeLabel, qty int) error {
	if qty < 1 || qty > domain.MaxQuantity {
		return domain.ErrInvalidQuantity
	}
	// The WHERE guard turns an over-cap sum into a no-op instead of storing it.
	const query = `
        INSERT INTO cart_items (user_id, product_id, size, quantity)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id, product_id, size)
        DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
        WHERE cart_items.quantity::bigint + EXCLUDED.quantity <= $5`

	tag, err := r.db.Exec(ctx, query, userID, string(productID), string(size), qty, domain.MaxQuantity)
	if err != nil {
		return errors.Wrap(err, "add cart item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

func (r *cartRepository) Set(ctx context.Context, userID string, productID domain.ProductID, size domain.SizeLabel, qty int) error {
	if qty < 0 || qty > domain.MaxQuantity {
		return domain.ErrInvalidQuantity
	}
	if qty == 0 {
		_, err := r.db.Exec(ctx,
			`DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2 AND size=$3`,
			userID, string(productID), string(size))
		return errors.Wrap(err, "remove cart item")
	}

	const query = `
        INSERT INTO cart_items (user_id, product_id, size, quantity)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id, product_id, size)
        DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, userID, string(productID), string(size), qty)
	return errors.Wrap(err, "set cart item")
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return errors.Wrap(err, "clear cart")
}
