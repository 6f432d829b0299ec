package models

import "time"

// Supplier statuses
const (
	SupplierActive   = "active"
	SupplierInactive = "inactive"
)

type Supplier struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Status    string    `json:"status"` // 'active' or 'inactive'
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSupplierRequest represents the request body for creating a supplier
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Status  string `json:"status"` // defaults to 'active' when empty
}

// UpdateSupplierRequest represents the request body for updating a supplier.
// Nil fields keep their current value.
type UpdateSupplierRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Status  *string `json:"status"`
}

// SupplierFilter holds list filters for suppliers
type SupplierFilter struct {
	Status string // '' means any
	Search string // case-insensitive substring on name
	Limit  int
	Offset int
}
