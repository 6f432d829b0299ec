package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL error code for duplicate unique keys
const uniqueViolation = "23505"

type SupplierRepository struct {
	DB *pgxpool.Pool
}

func NewSupplierRepository(db *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{DB: db}
}

// Create inserts a supplier. A duplicate name (case-insensitive) returns a
// Conflict error.
func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	err := q(ctx, r.DB).QueryRow(ctx,
		`INSERT INTO suppliers(name, phone, address, status)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		supplier.Name, supplier.Phone, supplier.Address, supplier.Status,
	).Scan(&supplier.ID, &supplier.CreatedAt, &supplier.UpdatedAt)

	if isUniqueViolation(err) {
		return apperrors.Conflict("supplier name %q already exists", supplier.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

// Get retrieves a supplier by ID
func (r *SupplierRepository) Get(ctx context.Context, id int) (*models.Supplier, error) {
	var s models.Supplier
	err := q(ctx, r.DB).QueryRow(ctx,
		`SELECT id, name, phone, address, status, created_at, updated_at
		 FROM suppliers WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Phone, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("supplier", id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns suppliers matching the filter, newest first
func (r *SupplierRepository) List(ctx context.Context, filter models.SupplierFilter) ([]*models.Supplier, error) {
	query := `SELECT id, name, phone, address, status, created_at, updated_at FROM suppliers`
	var conds []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := q(ctx, r.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		var s models.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, &s)
	}
	return suppliers, rows.Err()
}

// Update persists all mutable supplier fields
func (r *SupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	tag, err := q(ctx, r.DB).Exec(ctx,
		`UPDATE suppliers
		 SET name = $1, phone = $2, address = $3, status = $4, updated_at = NOW()
		 WHERE id = $5`,
		supplier.Name, supplier.Phone, supplier.Address, supplier.Status, supplier.ID,
	)
	if isUniqueViolation(err) {
		return apperrors.Conflict("supplier name %q already exists", supplier.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("supplier", supplier.ID)
	}
	return nil
}

// Delete removes a supplier. Purchases referencing it keep their rows with
// supplier_id set to NULL by the foreign key.
func (r *SupplierRepository) Delete(ctx context.Context, id int) error {
	tag, err := q(ctx, r.DB).Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("supplier", id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
