package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// ProductRepository is the read-only catalog contract used for price snapshots.
type ProductRepository interface {
	GetByID(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []domain.ProductID) ([]domain.Product, error)
}

type productRepository struct {
	db DBTX
}

// NewProductRepository returns a Postgres-backed catalog reader.
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, price, sizes, in_stock, created_at, updated_at`

func (r *productRepository) GetByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, string(id))
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []domain.ProductID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = string(id)
	}

	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, keys)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

func scanProduct(row pgx.CollectableRow) (domain.Product, error) {
	var (
		product domain.Product
		id      string
		sizes   []string
	)
	if err := row.Scan(&id, &product.Name, &product.Price, &sizes, &product.InStock, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return product, err
	}
	product.ID = domain.ProductID(id)
	product.Sizes = make([]domain.SizeLabel, len(sizes))
	for i, s := range sizes {
		product.Sizes[i] = domain.SizeLabel(s)
	}
	return product, nil
}
