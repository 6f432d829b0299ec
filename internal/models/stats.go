package models

import "time"

// DashboardStats is the headline numbers for the dashboard page
type DashboardStats struct {
	TotalPurchases    int     `json:"total_purchases"`
	TotalPurchaseCost float64 `json:"total_purchase_cost"`
	TotalSales        int     `json:"total_sales"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalNetProfit    float64 `json:"total_net_profit"`
	UnpaidInvoices    int     `json:"unpaid_invoices"`
	UnpaidAmount      float64 `json:"unpaid_amount"`
	ActiveSuppliers   int     `json:"active_suppliers"`
}

// MonthlyTrend is one month of purchase/sale totals. All 12 months of the
// requested year are always present, zero-filled where no data exists.
type MonthlyTrend struct {
	Month        int     `json:"month"` // 1-12
	PurchaseCost float64 `json:"purchase_cost"`
	Revenue      float64 `json:"revenue"`
	NetProfit    float64 `json:"net_profit"`
}

// TopSupplier is one row of the top-N suppliers breakdown
type TopSupplier struct {
	SupplierID   int     `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	Purchases    int     `json:"purchases"`
	TotalSpend   float64 `json:"total_spend"`
}

// TopCustomer is one row of the top-N customers breakdown
type TopCustomer struct {
	Customer    string  `json:"customer"`
	Invoices    int     `json:"invoices"`
	TotalBilled float64 `json:"total_billed"`
}

// AgingBucket classifies unpaid invoices by days overdue
type AgingBucket struct {
	Bucket     string  `json:"bucket"` // current, 1-30, 31-60, 61-90, 90+
	Count      int     `json:"count"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"` // share of total unpaid amount
}

// AgingReport is the full aging breakdown for unpaid invoices
type AgingReport struct {
	AsOf        time.Time     `json:"as_of"`
	TotalUnpaid float64       `json:"total_unpaid"`
	Buckets     []AgingBucket `json:"buckets"`
}

// InventoryTurnover reports remaining stock per purchase, oldest first
type InventoryTurnover struct {
	PurchaseID      int       `json:"purchase_id"`
	Date            time.Time `json:"date"`
	SupplierName    string    `json:"supplier_name"`
	TotalWeight     float64   `json:"total_weight"`
	SoldWeight      float64   `json:"sold_weight"`
	RemainingWeight float64   `json:"remaining_weight"`
}
