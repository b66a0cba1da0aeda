package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// OrderHistoryRepository stores audit entries.
type OrderHistoryRepository interface {
	Create(ctx context.Context, history *domain.OrderHistory) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.OrderHistory, error)
}

type orderHistoryRepository struct {
	db DBTX
}

// NewOrderHistoryRepository builds repository.
func NewOrderHistoryRepository(db DBTX) OrderHistoryRepository {
	return &orderHistoryRepository{db: db}
}

func (r *orderHistoryRepository) Create(ctx context.Context, history *domain.OrderHistory) error {
	const query = `
        INSERT INTO order_history (order_id, changed_by_id, changed_role, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		history.OrderID,
		history.ChangedByID,
		history.ChangedRole,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *orderHistoryRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	const query = `
        SELECT id, order_id, changed_by_id, changed_role, change_type, old_value, new_value, created_at
        FROM order_history WHERE order_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "list order history")
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.OrderHistory])
}
