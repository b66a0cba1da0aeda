package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// OrderRepository persists orders and their frozen lines.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id string) error
}

// OrderFilter narrows order listings. Zero values do not filter.
type OrderFilter struct {
	Statuses    []domain.OrderStatus
	Payment     *bool
	UserID      *string
	RiderID     *string
	Phone       *string
	GuestOnly   bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

type orderRepository struct {
	db DBTX
}

// NewOrderRepository returns a Postgres-backed ledger.
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, user_id, phone, address, subtotal, delivery_fee, discount, promo_code, amount,
        status, payment, payment_method, rider_id, created_at, updated_at`

// Create inserts the order and its lines. Callers wanting atomicity with the
// cart clear run it through a Transactor.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const insertOrder = `
        INSERT INTO orders (id, user_id, phone, address, subtotal, delivery_fee, discount, promo_code,
            amount, status, payment, payment_method, rider_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, updated_at`

	if err := r.db.QueryRow(ctx, insertOrder,
		order.ID,
		order.UserID,
		order.Phone,
		order.Address,
		order.Subtotal,
		order.DeliveryFee,
		order.Discount,
		order.PromoCode,
		order.Amount,
		order.Status,
		order.Payment,
		order.PaymentMethod,
		order.RiderID,
	).Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return errors.Wrap(err, "insert order")
	}

	const insertItem = `
        INSERT INTO order_items (order_id, position, product_id, name, size, price, quantity)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := r.db.QueryRow(ctx, insertItem,
			order.ID,
			i,
			string(item.ProductID),
			item.Name,
			string(item.Size),
			item.Price,
			item.Quantity,
		).Scan(&item.ID); err != nil {
			return errors.Wrapf(err, "insert order item %d", i)
		}
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	order, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	clauses := []string{}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.Payment != nil {
		args = append(args, *filter.Payment)
		clauses = append(clauses, fmt.Sprintf("payment=$%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.RiderID != nil {
		args = append(args, *filter.RiderID)
		clauses = append(clauses, fmt.Sprintf("rider_id=$%d", len(args)))
	}
	if filter.Phone != nil {
		args = append(args, *filter.Phone)
		clauses = append(clauses, fmt.Sprintf("phone=$%d", len(args)))
	}
	if filter.GuestOnly {
		clauses = append(clauses, "user_id IS NULL")
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	query += limitOffset(filter.Limit, filter.Offset)

	return r.query(ctx, query, args...)
}

// ListAll returns every order with lines, newest first. Used by analytics.
func (r *orderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// Update writes the mutable fulfillment fields. Lines are never rewritten.
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET status=$1, payment=$2, rider_id=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`

	return r.db.QueryRow(ctx, query,
		order.Status,
		order.Payment,
		order.RiderID,
		order.ID,
	).Scan(&order.UpdatedAt)
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete order")
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) query(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, errors.Wrap(err, "scan orders")
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
	}

	const query = `
        SELECT id, order_id, product_id, name, size, price, quantity
        FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return errors.Wrap(err, "list order items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item            domain.OrderLine
			productID, size string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &productID, &item.Name, &size, &item.Price, &item.Quantity); err != nil {
			return errors.Wrap(err, "scan order item")
		}
		item.ProductID = domain.ProductID(productID)
		item.Size = domain.SizeLabel(size)
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.CollectableRow) (domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.Phone,
		&order.Address,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Discount,
		&order.PromoCode,
		&order.Amount,
		&order.Status,
		&order.Payment,
		&order.PaymentMethod,
		&order.RiderID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	return order, err
}
