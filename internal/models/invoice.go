package models

import "time"

// Invoice statuses
const (
	InvoiceUnpaid = "unpaid"
	InvoicePaid   = "paid"
)

type Invoice struct {
	ID            int       `json:"id"`
	InvoiceNumber string    `json:"invoice_number"` // INV-YYYYMM-NNNN
	Date          time.Time `json:"date"`
	DueDate       time.Time `json:"due_date"`
	Customer      string    `json:"customer"`
	Status        string    `json:"status"` // 'unpaid' or 'paid'
	Amount        float64   `json:"amount"` // sum of item totals unless set explicitly
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type InvoiceItem struct {
	ID        int       `json:"id"`
	InvoiceID int       `json:"invoice_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"` // quantity * price
	CreatedAt time.Time `json:"created_at"`
}

// InvoiceWithItems bundles an invoice with its line items
type InvoiceWithItems struct {
	Invoice
	Items []InvoiceItem `json:"items"`
}

// InvoiceItemInput is a line item as supplied by the client
type InvoiceItemInput struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CreateInvoiceRequest represents the request body for creating an invoice
type CreateInvoiceRequest struct {
	InvoiceNumber string             `json:"invoice_number"` // generated when empty
	Date          string             `json:"date"`           // YYYY-MM-DD, defaults to today
	DueDate       string             `json:"due_date"`       // YYYY-MM-DD, must be >= date
	Customer      string             `json:"customer"`
	Amount        *float64           `json:"amount"` // stands as given only when no items supplied
	Items         []InvoiceItemInput `json:"items"`
}

// UpdateInvoiceRequest represents a partial update. When Items is non-nil the
// whole item set is replaced and the amount recomputed.
type UpdateInvoiceRequest struct {
	Date     *string             `json:"date"`
	DueDate  *string             `json:"due_date"`
	Customer *string             `json:"customer"`
	Amount   *float64            `json:"amount"`
	Items    *[]InvoiceItemInput `json:"items"`
}

// UpdateInvoiceItemRequest represents a partial update of one line item
type UpdateInvoiceItemRequest struct {
	Name     *string  `json:"name"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

// InvoiceFilter holds list filters for invoices
type InvoiceFilter struct {
	Status   string // '' means any
	Customer string // case-insensitive substring
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}
