package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// PromoRepository persists promo codes. Codes are stored already normalized.
type PromoRepository interface {
	Create(ctx context.Context, promo *domain.PromoCode) error
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	List(ctx context.Context) ([]domain.PromoCode, error)
	SetActive(ctx context.Context, code string, active bool) error
	Delete(ctx context.Context, code string) error
}

type promoRepository struct {
	db DBTX
}

// NewPromoRepository returns a Postgres-backed promo store.
func NewPromoRepository(db DBTX) PromoRepository {
	return &promoRepository{db: db}
}

const promoColumns = `id, code, value, active, created_at, updated_at`

func (r *promoRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	const query = `
        INSERT INTO promo_codes (code, value, active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, promo.Code, promo.Value, promo.Active).
		Scan(&promo.ID, &promo.CreatedAt, &promo.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *promoRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	rows, err := r.db.Query(ctx, `SELECT `+promoColumns+` FROM promo_codes WHERE code=$1`, code)
	if err != nil {
		return nil, errors.Wrap(err, "get promo")
	}
	promo, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.PromoCode])
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *promoRepository) List(ctx context.Context) ([]domain.PromoCode, error) {
	rows, err := r.db.Query(ctx, `SELECT `+promoColumns+` FROM promo_codes ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list promos")
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.PromoCode])
}

func (r *promoRepository) SetActive(ctx context.Context, code string, active bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE promo_codes SET active=$1, updated_at=NOW() WHERE code=$2`, active, code)
	if err != nil {
		return errors.Wrap(err, "update promo")
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *promoRepository) Delete(ctx context.Context, code string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM promo_codes WHERE code=$1`, code)
	if err != nil {
		return errors.Wrap(err, "delete promo")
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
