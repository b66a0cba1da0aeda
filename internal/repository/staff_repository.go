package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grocery-service/internal/domain"
)

// StaffRepository handles persistence for staff members.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	Update(ctx context.Context, staff *domain.StaffMember) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error)
	Delete(ctx context.Context, id string) error
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Role   *domain.Role
	Active *bool
	Limit  int
	Offset int
}

type staffRepository struct {
	db DBTX
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(db DBTX) StaffRepository {
	return &staffRepository{db: db}
}

const staffColumns = `id, name, email, phone, password_hash, role, active_flag, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (name, email, phone, password_hash, role, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.Phone,
		staff.PasswordHash,
		staff.Role,
		staff.Active,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        UPDATE staff_members
        SET name=$1, email=$2, phone=$3, password_hash=$4, role=$5, active_flag=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.Phone,
		staff.PasswordHash,
		staff.Role,
		staff.Active,
		staff.ID,
	).Scan(&staff.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	rows, err := r.db.Query(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE id=$1`, id)
	if err != nil {
		return nil, errors.Wrap(err, "get staff")
	}
	staff, err := pgx.CollectExactlyOneRow(rows, scanStaff)
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	rows, err := r.db.Query(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE lower(email)=lower($1)`, email)
	if err != nil {
		return nil, errors.Wrap(err, "get staff by email")
	}
	staff, err := pgx.CollectExactlyOneRow(rows, scanStaff)
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC"
	query += limitOffset(filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list staff")
	}
	return pgx.CollectRows(rows, scanStaff)
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM staff_members WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete staff")
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanStaff(row pgx.CollectableRow) (domain.StaffMember, error) {
	var staff domain.StaffMember
	err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.Phone,
		&staff.PasswordHash,
		&staff.Role,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
	return staff, err
}

func limitOffset(limit, offset int) string {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}
