package services

import (
	"context"

	"ricemill-backend/internal/models"
)

// TxRunner scopes a function to one database transaction. Invariant checks
// and the writes they guard always run through it together.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SupplierStore is the persistence surface the supplier registry needs
type SupplierStore interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	Get(ctx context.Context, id int) (*models.Supplier, error)
	List(ctx context.Context, filter models.SupplierFilter) ([]*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id int) error
}

// PurchaseStore is the persistence surface the purchase ledger needs.
// GetForUpdate locks the purchase row for the surrounding transaction.
type PurchaseStore interface {
	Create(ctx context.Context, p *models.Purchase) error
	Get(ctx context.Context, id int) (*models.Purchase, error)
	GetForUpdate(ctx context.Context, id int) (*models.Purchase, error)
	List(ctx context.Context, filter models.PurchaseFilter) ([]*models.Purchase, error)
	Update(ctx context.Context, p *models.Purchase) error
	HasSales(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) error
}

// SaleStore is the persistence surface the sale ledger needs. SumSoldWeight
// aggregates SUM(quantity * (weight + extra_weight)) over the sales of a
// purchase, optionally excluding one sale id.
type SaleStore interface {
	Create(ctx context.Context, s *models.Sale) error
	Get(ctx context.Context, id int) (*models.Sale, error)
	List(ctx context.Context, filter models.SaleFilter) ([]*models.Sale, error)
	Update(ctx context.Context, s *models.Sale) error
	Delete(ctx context.Context, id int) error
	SumSoldWeight(ctx context.Context, purchaseID, excludeSaleID int) (float64, error)
}

// InvoiceStore is the persistence surface the invoice ledger needs.
// GetForUpdate locks the invoice row for the surrounding transaction.
type InvoiceStore interface {
	NextSequence(ctx context.Context, prefix string) (int, error)
	Create(ctx context.Context, inv *models.Invoice) error
	Get(ctx context.Context, id int) (*models.Invoice, error)
	GetForUpdate(ctx context.Context, id int) (*models.Invoice, error)
	GetWithItems(ctx context.Context, id int) (*models.InvoiceWithItems, error)
	List(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error)
	Update(ctx context.Context, inv *models.Invoice) error
	UpdateAmount(ctx context.Context, id int, amount float64) error
	Delete(ctx context.Context, id int) error

	CreateItem(ctx context.Context, item *models.InvoiceItem) error
	GetItem(ctx context.Context, itemID int) (*models.InvoiceItem, error)
	ListItems(ctx context.Context, invoiceID int) ([]models.InvoiceItem, error)
	UpdateItem(ctx context.Context, item *models.InvoiceItem) error
	DeleteItem(ctx context.Context, itemID int) error
	DeleteItems(ctx context.Context, invoiceID int) error
}

// UserStore is the persistence surface the user service needs
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id int) error
}

// StatsStore is the read-only aggregate surface behind reports
type StatsStore interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	MonthlyPurchaseCosts(ctx context.Context, year int) (map[int]float64, error)
	MonthlySaleTotals(ctx context.Context, year int) (map[int][2]float64, error)
	TopSuppliers(ctx context.Context, n int) ([]models.TopSupplier, error)
	TopCustomers(ctx context.Context, n int) ([]models.TopCustomer, error)
	UnpaidInvoices(ctx context.Context) ([]*models.Invoice, error)
	InventoryTurnover(ctx context.Context) ([]models.InventoryTurnover, error)
}
