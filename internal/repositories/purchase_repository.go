package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PurchaseRepository struct {
	DB *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

const purchaseColumns = `id, date, supplier_id, supplier_name, quantity, weight, extra_weight,
	price, truck_cost, labor_cost, pellet_cost, total_cost, created_at, updated_at`

func scanPurchase(row pgx.Row) (*models.Purchase, error) {
	var p models.Purchase
	err := row.Scan(&p.ID, &p.Date, &p.SupplierID, &p.SupplierName, &p.Quantity, &p.Weight,
		&p.ExtraWeight, &p.Price, &p.TruckCost, &p.LaborCost, &p.PelletCost, &p.TotalCost,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a purchase with its precomputed total_cost
func (r *PurchaseRepository) Create(ctx context.Context, p *models.Purchase) error {
	err := q(ctx, r.DB).QueryRow(ctx,
		`INSERT INTO purchases(date, supplier_id, supplier_name, quantity, weight, extra_weight,
		                       price, truck_cost, labor_cost, pellet_cost, total_cost)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		p.Date, p.SupplierID, p.SupplierName, p.Quantity, p.Weight, p.ExtraWeight,
		p.Price, p.TruckCost, p.LaborCost, p.PelletCost, p.TotalCost,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

// Get retrieves a purchase by ID
func (r *PurchaseRepository) Get(ctx context.Context, id int) (*models.Purchase, error) {
	p, err := scanPurchase(q(ctx, r.DB).QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("purchase", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetForUpdate retrieves a purchase and locks its row for the duration of the
// surrounding transaction. Used by the sale ledger so the inventory check and
// the sale insert cannot race with a concurrent sale on the same purchase.
func (r *PurchaseRepository) GetForUpdate(ctx context.Context, id int) (*models.Purchase, error) {
	p, err := scanPurchase(q(ctx, r.DB).QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("purchase", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns purchases matching the filter, newest first
func (r *PurchaseRepository) List(ctx context.Context, filter models.PurchaseFilter) ([]*models.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases`
	var conds []string
	var args []any

	if filter.SupplierID != nil {
		args = append(args, *filter.SupplierID)
		conds = append(conds, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	if filter.MinCost != nil {
		args = append(args, *filter.MinCost)
		conds = append(conds, fmt.Sprintf("total_cost >= $%d", len(args)))
	}
	if filter.MaxCost != nil {
		args = append(args, *filter.MaxCost)
		conds = append(conds, fmt.Sprintf("total_cost <= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

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

	var purchases []*models.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// Update persists all mutable purchase fields including the recomputed total_cost
func (r *PurchaseRepository) Update(ctx context.Context, p *models.Purchase) error {
	tag, err := q(ctx, r.DB).Exec(ctx,
		`UPDATE purchases
		 SET date = $1, supplier_id = $2, supplier_name = $3, quantity = $4, weight = $5,
		     extra_weight = $6, price = $7, truck_cost = $8, labor_cost = $9,
		     pellet_cost = $10, total_cost = $11, updated_at = NOW()
		 WHERE id = $12`,
		p.Date, p.SupplierID, p.SupplierName, p.Quantity, p.Weight, p.ExtraWeight,
		p.Price, p.TruckCost, p.LaborCost, p.PelletCost, p.TotalCost, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("purchase", p.ID)
	}
	return nil
}

// HasSales reports whether any sale references the purchase
func (r *PurchaseRepository) HasSales(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := q(ctx, r.DB).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sales WHERE purchase_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Delete removes a purchase row. Callers must have verified no sales
// reference it (inside the same transaction).
func (r *PurchaseRepository) Delete(ctx context.Context, id int) error {
	tag, err := q(ctx, r.DB).Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("purchase", id)
	}
	return nil
}
