package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRepos are repositories bound to one transaction.
type TxRepos struct {
	Orders  OrderRepository
	Carts   CartRepository
	History OrderHistoryRepository
}

// Transactor runs fn inside a transaction, committing only when fn returns nil.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(TxRepos) error) error
}

type pgxTransactor struct {
	pool *pgxpool.Pool
}

// NewTransactor returns a pgx-backed Transactor.
func NewTransactor(pool *pgxpool.Pool) Transactor {
	return &pgxTransactor{pool: pool}
}

func (t *pgxTransactor) WithinTx(ctx context.Context, fn func(TxRepos) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := TxRepos{
		Orders:  NewOrderRepository(tx),
		Carts:   NewCartRepository(tx),
		History: NewOrderHistoryRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}
