package repositories

import (
	"context"
	"fmt"

	"ricemill-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository serves the read-only aggregate queries behind the
// dashboard and reports. It never writes.
type StatsRepository struct {
	DB *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{DB: db}
}

// Dashboard returns the headline totals in one round trip per table
func (r *StatsRepository) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_cost), 0) FROM purchases`,
	).Scan(&stats.TotalPurchases, &stats.TotalPurchaseCost)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate purchases: %w", err)
	}

	err = r.DB.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(quantity * (weight + extra_weight) * price), 0),
		        COALESCE(SUM(net_profit), 0)
		 FROM sales`,
	).Scan(&stats.TotalSales, &stats.TotalRevenue, &stats.TotalNetProfit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}

	err = r.DB.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM invoices WHERE status = 'unpaid'`,
	).Scan(&stats.UnpaidInvoices, &stats.UnpaidAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate invoices: %w", err)
	}

	err = r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM suppliers WHERE status = 'active'`,
	).Scan(&stats.ActiveSuppliers)
	if err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}

	return &stats, nil
}

// MonthlyPurchaseCosts returns total purchase cost per month (1-12) for a year.
// Months with no purchases are absent from the map.
func (r *StatsRepository) MonthlyPurchaseCosts(ctx context.Context, year int) (map[int]float64, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT EXTRACT(MONTH FROM date)::int, COALESCE(SUM(total_cost), 0)
		 FROM purchases
		 WHERE EXTRACT(YEAR FROM date) = $1
		 GROUP BY 1`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int]float64)
	for rows.Next() {
		var month int
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		totals[month] = total
	}
	return totals, rows.Err()
}

// MonthlySaleTotals returns revenue and net profit per month (1-12) for a year
func (r *StatsRepository) MonthlySaleTotals(ctx context.Context, year int) (map[int][2]float64, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT EXTRACT(MONTH FROM date)::int,
		        COALESCE(SUM(quantity * (weight + extra_weight) * price), 0),
		        COALESCE(SUM(net_profit), 0)
		 FROM sales
		 WHERE EXTRACT(YEAR FROM date) = $1
		 GROUP BY 1`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int][2]float64)
	for rows.Next() {
		var month int
		var revenue, profit float64
		if err := rows.Scan(&month, &revenue, &profit); err != nil {
			return nil, err
		}
		totals[month] = [2]float64{revenue, profit}
	}
	return totals, rows.Err()
}

// TopSuppliers returns the n suppliers with the highest purchase spend
func (r *StatsRepository) TopSuppliers(ctx context.Context, n int) ([]models.TopSupplier, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT s.id, s.name, COUNT(p.id), COALESCE(SUM(p.total_cost), 0) AS spend
		 FROM suppliers s
		 JOIN purchases p ON p.supplier_id = s.id
		 GROUP BY s.id, s.name
		 ORDER BY spend DESC
		 LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []models.TopSupplier
	for rows.Next() {
		var t models.TopSupplier
		if err := rows.Scan(&t.SupplierID, &t.SupplierName, &t.Purchases, &t.TotalSpend); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

// TopCustomers returns the n customers with the highest invoiced amount
func (r *StatsRepository) TopCustomers(ctx context.Context, n int) ([]models.TopCustomer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT customer, COUNT(*), COALESCE(SUM(amount), 0) AS billed
		 FROM invoices
		 GROUP BY customer
		 ORDER BY billed DESC
		 LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []models.TopCustomer
	for rows.Next() {
		var t models.TopCustomer
		if err := rows.Scan(&t.Customer, &t.Invoices, &t.TotalBilled); err != nil {
			return nil, err
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

// UnpaidInvoices returns every unpaid invoice for the aging report
func (r *StatsRepository) UnpaidInvoices(ctx context.Context) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE status = 'unpaid' ORDER BY due_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// InventoryTurnover reports remaining weight per purchase, oldest first
// (FIFO presentation - the ledger does not auto-allocate sales to batches)
func (r *StatsRepository) InventoryTurnover(ctx context.Context) ([]models.InventoryTurnover, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT p.id, p.date,
		        COALESCE(s.name, p.supplier_name),
		        p.quantity * (p.weight + p.extra_weight) AS total_weight,
		        COALESCE(sold.weight, 0) AS sold_weight
		 FROM purchases p
		 LEFT JOIN suppliers s ON s.id = p.supplier_id
		 LEFT JOIN (
		     SELECT purchase_id, SUM(quantity * (weight + extra_weight)) AS weight
		     FROM sales GROUP BY purchase_id
		 ) sold ON sold.purchase_id = p.id
		 ORDER BY p.date ASC, p.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []models.InventoryTurnover
	for rows.Next() {
		var t models.InventoryTurnover
		if err := rows.Scan(&t.PurchaseID, &t.Date, &t.SupplierName, &t.TotalWeight, &t.SoldWeight); err != nil {
			return nil, err
		}
		t.RemainingWeight = t.TotalWeight - t.SoldWeight
		report = append(report, t)
	}
	return report, rows.Err()
}
