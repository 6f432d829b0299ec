package services

import (
	"testing"

	"ricemill-backend/internal/models"
)

func TestPurchaseTotalCost(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int
		weight      float64
		extraWeight float64
		price       float64
		truckCost   float64
		laborCost   float64
		pelletCost  float64
		want        float64
	}{
		{
			name:     "paddy purchase with transport and labor",
			quantity: 100, weight: 50, extraWeight: 0, price: 200000,
			truckCost: 50000, laborCost: 20000, pelletCost: 0,
			want: 1000070000,
		},
		{
			name:     "extra weight counts per sack",
			quantity: 10, weight: 50, extraWeight: 2, price: 1000,
			truckCost: 0, laborCost: 0, pelletCost: 0,
			want: 520000,
		},
		{
			name:     "single sack no extras",
			quantity: 1, weight: 0.5, extraWeight: 0, price: 3,
			want: 1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PurchaseTotalCost(tt.quantity, tt.weight, tt.extraWeight, tt.price,
				tt.truckCost, tt.laborCost, tt.pelletCost)
			if got != tt.want {
				t.Errorf("PurchaseTotalCost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveSaleLinkedPurchase(t *testing.T) {
	purchase := &models.Purchase{
		ID:       1,
		Quantity: 100, Weight: 50, ExtraWeight: 0, Price: 200000,
		TruckCost: 50000, LaborCost: 20000,
		TotalCost: 1000070000,
	}
	purchaseID := purchase.ID
	sale := &models.Sale{
		PurchaseID: &purchaseID,
		Quantity:   10, Weight: 50, ExtraWeight: 0, Price: 2500000,
		PelletCost: 10000, FuelCost: 5000, LaborCost: 8000,
	}

	d := DeriveSale(sale, purchase)

	if d.SoldWeight != 500 {
		t.Errorf("SoldWeight = %v, want 500", d.SoldWeight)
	}
	if d.Revenue != 1250000000 {
		t.Errorf("Revenue = %v, want 1250000000", d.Revenue)
	}
	if d.PurchaseCost != 100007000 {
		t.Errorf("PurchaseCost = %v, want 100007000", d.PurchaseCost)
	}
	if d.NetProfit != 1149970000 {
		t.Errorf("NetProfit = %v, want 1149970000", d.NetProfit)
	}
	if d.Rendement != "10.0%" {
		t.Errorf("Rendement = %q, want %q", d.Rendement, "10.0%")
	}
}

func TestDeriveSaleUnlinked(t *testing.T) {
	sale := &models.Sale{
		Quantity: 5, Weight: 40, ExtraWeight: 0, Price: 10000,
		PelletCost: 1000, FuelCost: 500, LaborCost: 500,
	}

	d := DeriveSale(sale, nil)

	if d.PurchaseCost != 0 {
		t.Errorf("PurchaseCost = %v, want 0 for unlinked sale", d.PurchaseCost)
	}
	if d.Rendement != "" {
		t.Errorf("Rendement = %q, want empty for unlinked sale", d.Rendement)
	}
	// revenue 200*10000 = 2000000, costs 2000
	if d.NetProfit != 1998000 {
		t.Errorf("NetProfit = %v, want 1998000", d.NetProfit)
	}
}

func TestDeriveSaleZeroWeightPurchase(t *testing.T) {
	purchase := &models.Purchase{ID: 2, Quantity: 1, Weight: 0, TotalCost: 0}
	purchaseID := purchase.ID
	sale := &models.Sale{PurchaseID: &purchaseID, Quantity: 1, Weight: 10, Price: 100}

	d := DeriveSale(sale, purchase)

	if d.PurchaseCost != 0 {
		t.Errorf("PurchaseCost = %v, want 0 when purchase weight is zero", d.PurchaseCost)
	}
	if d.Rendement != "" {
		t.Errorf("Rendement = %q, want empty when purchase cost is zero", d.Rendement)
	}
}

func TestFormatRendement(t *testing.T) {
	if got := FormatRendement(83.333); got != "83.3%" {
		t.Errorf("FormatRendement(83.333) = %q, want %q", got, "83.3%")
	}
	if got := FormatRendement(100); got != "100.0%" {
		t.Errorf("FormatRendement(100) = %q, want %q", got, "100.0%")
	}
}

func TestSumItemTotals(t *testing.T) {
	items := []models.InvoiceItem{
		{Total: ItemTotal(10, 300000)},
		{Total: ItemTotal(10, 4000)},
	}
	if got := SumItemTotals(items); got != 3040000 {
		t.Errorf("SumItemTotals() = %v, want 3040000", got)
	}
	if got := SumItemTotals(nil); got != 0 {
		t.Errorf("SumItemTotals(nil) = %v, want 0", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(10.456); got != 10.46 {
		t.Errorf("Round2(10.456) = %v, want 10.46", got)
	}
	if got := Round2(10.454); got != 10.45 {
		t.Errorf("Round2(10.454) = %v, want 10.45", got)
	}
}
