package models

import "time"

type Sale struct {
	ID          int       `json:"id"`
	Date        time.Time `json:"date"`
	PurchaseID  *int      `json:"purchase_id"`
	Quantity    int       `json:"quantity"`     // number of sacks sold
	Weight      float64   `json:"weight"`       // kg per sack
	ExtraWeight float64   `json:"extra_weight"` // additional kg per sack
	Price       float64   `json:"price"`        // selling price per kg
	PelletCost  float64   `json:"pellet_cost"`
	FuelCost    float64   `json:"fuel_cost"`
	LaborCost   float64   `json:"labor_cost"`
	NetProfit   float64   `json:"net_profit"` // derived, persisted
	Rendement   string    `json:"rendement"`  // derived, persisted, e.g. "83.3%"
	TotalWeight float64   `json:"total_weight"` // derived at read time
	Revenue     float64   `json:"revenue"`      // derived at read time
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SoldWeight returns quantity * (weight + extraWeight) in kg.
func (s *Sale) SoldWeight() float64 {
	return float64(s.Quantity) * (s.Weight + s.ExtraWeight)
}

// CreateSaleRequest represents the request body for recording a sale
type CreateSaleRequest struct {
	Date        string  `json:"date"` // YYYY-MM-DD, defaults to today
	PurchaseID  *int    `json:"purchase_id"`
	Quantity    int     `json:"quantity"`
	Weight      float64 `json:"weight"`
	ExtraWeight float64 `json:"extra_weight"`
	Price       float64 `json:"price"`
	PelletCost  float64 `json:"pellet_cost"`
	FuelCost    float64 `json:"fuel_cost"`
	LaborCost   float64 `json:"labor_cost"`
}

// UpdateSaleRequest represents a partial update. Nil fields keep their
// current value; net_profit and rendement are always recomputed.
type UpdateSaleRequest struct {
	Date        *string  `json:"date"`
	PurchaseID  *int     `json:"purchase_id"`
	Quantity    *int     `json:"quantity"`
	Weight      *float64 `json:"weight"`
	ExtraWeight *float64 `json:"extra_weight"`
	Price       *float64 `json:"price"`
	PelletCost  *float64 `json:"pellet_cost"`
	FuelCost    *float64 `json:"fuel_cost"`
	LaborCost   *float64 `json:"labor_cost"`
}

// SaleFilter holds list filters for sales
type SaleFilter struct {
	PurchaseID *int
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}
