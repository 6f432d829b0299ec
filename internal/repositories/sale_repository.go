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

type SaleRepository struct {
	DB *pgxpool.Pool
}

func NewSaleRepository(db *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{DB: db}
}

const saleColumns = `id, date, purchase_id, quantity, weight, extra_weight, price,
	pellet_cost, fuel_cost, labor_cost, net_profit, rendement, created_at, updated_at`

func scanSale(row pgx.Row) (*models.Sale, error) {
	var s models.Sale
	err := row.Scan(&s.ID, &s.Date, &s.PurchaseID, &s.Quantity, &s.Weight, &s.ExtraWeight,
		&s.Price, &s.PelletCost, &s.FuelCost, &s.LaborCost, &s.NetProfit, &s.Rendement,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a sale with its precomputed net_profit and rendement
func (r *SaleRepository) Create(ctx context.Context, s *models.Sale) error {
	err := q(ctx, r.DB).QueryRow(ctx,
		`INSERT INTO sales(date, purchase_id, quantity, weight, extra_weight, price,
		                   pellet_cost, fuel_cost, labor_cost, net_profit, rendement)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		s.Date, s.PurchaseID, s.Quantity, s.Weight, s.ExtraWeight, s.Price,
		s.PelletCost, s.FuelCost, s.LaborCost, s.NetProfit, s.Rendement,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

// Get retrieves a sale by ID
func (r *SaleRepository) Get(ctx context.Context, id int) (*models.Sale, error) {
	s, err := scanSale(q(ctx, r.DB).QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("sale", id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns sales matching the filter, newest first
func (r *SaleRepository) List(ctx context.Context, filter models.SaleFilter) ([]*models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales`
	var conds []string
	var args []any

	if filter.PurchaseID != nil {
		args = append(args, *filter.PurchaseID)
		conds = append(conds, fmt.Sprintf("purchase_id = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
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

	var sales []*models.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// Update persists all mutable sale fields including recomputed derived values
func (r *SaleRepository) Update(ctx context.Context, s *models.Sale) error {
	tag, err := q(ctx, r.DB).Exec(ctx,
		`UPDATE sales
		 SET date = $1, purchase_id = $2, quantity = $3, weight = $4, extra_weight = $5,
		     price = $6, pellet_cost = $7, fuel_cost = $8, labor_cost = $9,
		     net_profit = $10, rendement = $11, updated_at = NOW()
		 WHERE id = $12`,
		s.Date, s.PurchaseID, s.Quantity, s.Weight, s.ExtraWeight, s.Price,
		s.PelletCost, s.FuelCost, s.LaborCost, s.NetProfit, s.Rendement, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("sale", s.ID)
	}
	return nil
}

// Delete removes a sale. Sales are leaves, nothing depends on them.
func (r *SaleRepository) Delete(ctx context.Context, id int) error {
	tag, err := q(ctx, r.DB).Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("sale", id)
	}
	return nil
}

// SumSoldWeight returns SUM(quantity * (weight + extra_weight)) over all sales
// of a purchase. excludeSaleID > 0 leaves that sale out of the sum, which
// updates need so a sale does not count its own previous contribution.
func (r *SaleRepository) SumSoldWeight(ctx context.Context, purchaseID, excludeSaleID int) (float64, error) {
	query := `SELECT COALESCE(SUM(quantity * (weight + extra_weight)), 0)
	          FROM sales WHERE purchase_id = $1`
	args := []any{purchaseID}
	if excludeSaleID > 0 {
		query += ` AND id <> $2`
		args = append(args, excludeSaleID)
	}

	var sum float64
	if err := q(ctx, r.DB).QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum sold weight: %w", err)
	}
	return sum, nil
}
