package services

import (
	"fmt"
	"math"

	"ricemill-backend/internal/models"
)

// Round2 normalizes a monetary or weight value to 2 decimal places.
// All derived financial fields pass through this before persistence.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 normalizes a percentage to 1 decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// PurchaseTotalCost computes
// quantity * (weight + extraWeight) * price + truckCost + laborCost + pelletCost.
// Every purchase create and update recomputes this from scratch.
func PurchaseTotalCost(quantity int, weight, extraWeight, price, truckCost, laborCost, pelletCost float64) float64 {
	goods := float64(quantity) * (weight + extraWeight) * price
	return Round2(goods + truckCost + laborCost + pelletCost)
}

// SaleDerived holds every value derived from a sale and its linked purchase
type SaleDerived struct {
	SoldWeight   float64
	Revenue      float64
	PurchaseCost float64
	NetProfit    float64
	Rendement    string
}

// DeriveSale computes revenue, proportional purchase cost, net profit and the
// rendement string for a sale. purchase may be nil (unlinked sale or purchase
// since removed), in which case purchase cost is zero and rendement empty.
func DeriveSale(sale *models.Sale, purchase *models.Purchase) SaleDerived {
	d := SaleDerived{SoldWeight: sale.SoldWeight()}
	d.Revenue = Round2(d.SoldWeight * sale.Price)

	operationalCosts := sale.PelletCost + sale.FuelCost + sale.LaborCost

	if purchase != nil {
		purchaseTotalWeight := purchase.TotalWeight()
		if purchaseTotalWeight > 0 {
			proportion := d.SoldWeight / purchaseTotalWeight
			d.PurchaseCost = Round2(purchase.TotalCost * proportion)
			if d.PurchaseCost > 0 {
				d.Rendement = FormatRendement(proportion * 100)
			}
		}
	}

	d.NetProfit = Round2(d.Revenue - d.PurchaseCost - operationalCosts)
	return d
}

// FormatRendement renders a yield percentage with one decimal place,
// e.g. 83.333 -> "83.3%"
func FormatRendement(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}

// ItemTotal computes one invoice line total
func ItemTotal(quantity int, price float64) float64 {
	return Round2(float64(quantity) * price)
}

// SumItemTotals computes an invoice amount from its line items, zero when
// none remain
func SumItemTotals(items []models.InvoiceItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Total
	}
	return Round2(sum)
}
