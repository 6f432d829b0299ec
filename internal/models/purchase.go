package models

import "time"

type Purchase struct {
	ID           int       `json:"id"`
	Date         time.Time `json:"date"`
	SupplierID   *int      `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"` // free-text fallback when no supplier_id
	Quantity     int       `json:"quantity"`      // number of sacks
	Weight       float64   `json:"weight"`        // kg per sack
	ExtraWeight  float64   `json:"extra_weight"`  // additional kg per sack
	Price        float64   `json:"price"`         // price per kg
	TruckCost    float64   `json:"truck_cost"`
	LaborCost    float64   `json:"labor_cost"`
	PelletCost   float64   `json:"pellet_cost"`
	TotalCost    float64   `json:"total_cost"` // derived, recomputed on every write
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TotalWeight returns quantity * (weight + extraWeight) in kg.
func (p *Purchase) TotalWeight() float64 {
	return float64(p.Quantity) * (p.Weight + p.ExtraWeight)
}

// CreatePurchaseRequest represents the request body for recording a purchase
type CreatePurchaseRequest struct {
	Date         string  `json:"date"` // YYYY-MM-DD, defaults to today
	SupplierID   *int    `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	Quantity     int     `json:"quantity"`
	Weight       float64 `json:"weight"`
	ExtraWeight  float64 `json:"extra_weight"`
	Price        float64 `json:"price"`
	TruckCost    float64 `json:"truck_cost"`
	LaborCost    float64 `json:"labor_cost"`
	PelletCost   float64 `json:"pellet_cost"`
}

// UpdatePurchaseRequest represents a partial update. Nil fields keep their
// current value; total_cost is always recomputed from the merged set.
type UpdatePurchaseRequest struct {
	Date         *string  `json:"date"`
	SupplierID   *int     `json:"supplier_id"`
	SupplierName *string  `json:"supplier_name"`
	Quantity     *int     `json:"quantity"`
	Weight       *float64 `json:"weight"`
	ExtraWeight  *float64 `json:"extra_weight"`
	Price        *float64 `json:"price"`
	TruckCost    *float64 `json:"truck_cost"`
	LaborCost    *float64 `json:"labor_cost"`
	PelletCost   *float64 `json:"pellet_cost"`
}

// PurchaseFilter holds list filters for purchases
type PurchaseFilter struct {
	SupplierID *int
	DateFrom   *time.Time
	DateTo     *time.Time
	MinCost    *float64
	MaxCost    *float64
	Limit      int
	Offset     int
}
