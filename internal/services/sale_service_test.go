package services

import (
	"context"
	"strings"
	"testing"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/models"
)

func newSaleHarness(t *testing.T) (*SaleService, *models.Purchase, *fakeSaleStore) {
	t.Helper()
	suppliers := newFakeSupplierStore()
	sales := newFakeSaleStore()
	purchases := newFakePurchaseStore(sales)
	supplier := activeSupplier(t, suppliers, "Pak Budi")

	purchaseSvc := NewPurchaseService(purchases, suppliers, nopTx{})
	purchase, err := purchaseSvc.CreatePurchase(context.Background(), &models.CreatePurchaseRequest{
		SupplierID: &supplier.ID,
		Quantity:   100, Weight: 50, Price: 200000,
		TruckCost: 50000, LaborCost: 20000,
	})
	if err != nil {
		t.Fatalf("creating purchase: %v", err)
	}

	return NewSaleService(sales, purchases, nopTx{}), purchase, sales
}

func TestCreateSaleDerivesFinancials(t *testing.T) {
	svc, purchase, _ := newSaleHarness(t)

	sale, err := svc.CreateSale(context.Background(), &models.CreateSaleRequest{
		PurchaseID: &purchase.ID,
		Quantity:   10, Weight: 50, Price: 2500000,
		PelletCost: 10000, FuelCost: 5000, LaborCost: 8000,
	})
	if err != nil {
		t.Fatalf("CreateSale() error: %v", err)
	}

	if sale.Revenue != 1250000000 {
		t.Errorf("Revenue = %v, want 1250000000", sale.Revenue)
	}
	if sale.NetProfit != 1149970000 {
		t.Errorf("NetProfit = %v, want 1149970000", sale.NetProfit)
	}
	if sale.Rendement != "10.0%" {
		t.Errorf("Rendement = %q, want %q", sale.Rendement, "10.0%")
	}
}

func TestCreateSaleRejectsOversell(t *testing.T) {
	svc, purchase, sales := newSaleHarness(t)

	// First sale takes 500 of 5000 kg
	if _, err := svc.CreateSale(context.Background(), &models.CreateSaleRequest{
		PurchaseID: &purchase.ID,
		Quantity:   10, Weight: 50, Price: 2500000,
	}); err != nil {
		t.Fatalf("first CreateSale() error: %v", err)
	}

	// 200 sacks of 50 kg = 10000 kg, remaining is only 4500
	_, err := svc.CreateSale(context.Background(), &models.CreateSaleRequest{
		PurchaseID: &purchase.ID,
		Quantity:   200, Weight: 50, Price: 2500000,
	})
	if apperrors.KindOf(err) != apperrors.KindBusinessRule {
		t.Fatalf("expected business rule error for oversell, got %v", err)
	}
	if !strings.Contains(err.Error(), "4500.00") {
		t.Errorf("error should state available weight, got %q", err.Error())
	}

	if len(sales.sales) != 1 {
		t.Errorf("rejected sale must not be persisted, have %d sales", len(sales.sales))
	}
}

func TestCreateSaleExactRemainingWeight(t *testing.T) {
	svc, purchase, _ := newSaleHarness(t)

	if _, err := svc.CreateSale(context.Background(), &models.CreateSaleRequest{
		PurchaseID: &purchase.ID,
		Quantity:   10, Weight: 50, Price: 2500000,
	}); err != nil {
		t.Fatalf("first CreateSale() error: %v", err)
	}

	// 90 sacks of 50 kg consumes exactly the remaining 4500 kg
	if _, err := svc.CreateSale(context.Background(), &models.CreateSaleRequest{
		PurchaseID: &purchase.ID,
		Quantity:   90, Weight: 50, Price: 2500000,
	}); err != nil {
		t.Fatalf("sale of exact remaining weight should succeed: %v", err)
	}
}

func TestUpdateSaleExcludesOwnWeight(t *testing.T) {
	svc, purchase, _ := newSaleHarness(t)

	sale, err := svc.CreateSale(context.Background(), &models.CreateSaleRequest{
		PurchaseID: &purchase.ID,
		Quantity:   100, Weight: 50, Price: 2500000,
	})
	if err != nil {
		t.Fatalf("CreateSale() error: %v", err)
	}

	// The whole purchase is sold; growing this sale by one sack must fail,
	// but re-saving at the same size must not trip over its own weight.
	sameQty := 100
	if _, err := svc.UpdateSale(context.Background(), sale.ID, &models.UpdateSaleRequest{
		Quantity: &sameQty,
	}); err != nil {
		t.Fatalf("same-size update should succeed: %v", err)
	}

	biggerQty := 101
	_, err = svc.UpdateSale(context.Background(), sale.ID, &models.UpdateSaleRequest{
		Quantity: &biggerQty,
	})
	if apperrors.KindOf(err) != apperrors.KindBusinessRule {
		t.Fatalf("expected business rule error growing past total weight, got %v", err)
	}
}

func TestUpdateSaleRejectionLeavesStateUnchanged(t *testing.T) {
	svc, purchase, _ := newSaleHarness(t)

	sale, err := svc.CreateSale(context.Background(), &models.CreateSaleRequest{
		PurchaseID: &purchase.ID,
		Quantity:   10, Weight: 50, Price: 2500000,
		PelletCost: 10000, FuelCost: 5000, LaborCost: 8000,
	})
	if err != nil {
		t.Fatalf("CreateSale() error: %v", err)
	}

	oversized := 200
	if _, err := svc.UpdateSale(context.Background(), sale.ID, &models.UpdateSaleRequest{
		Quantity: &oversized,
	}); err == nil {
		t.Fatal("expected oversell rejection")
	}

	stored, err := svc.GetSale(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("GetSale() error: %v", err)
	}
	if stored.Quantity != 10 {
		t.Errorf("Quantity = %d, want 10 after rejected update", stored.Quantity)
	}
	if stored.NetProfit != 1149970000 {
		t.Errorf("NetProfit = %v, want unchanged 1149970000", stored.NetProfit)
	}
}

func TestCreateSaleUnlinked(t *testing.T) {
	svc, _, _ := newSaleHarness(t)

	sale, err := svc.CreateSale(context.Background(), &models.CreateSaleRequest{
		Quantity: 5, Weight: 40, Price: 10000,
		PelletCost: 1000, FuelCost: 500, LaborCost: 500,
	})
	if err != nil {
		t.Fatalf("CreateSale() error: %v", err)
	}

	if sale.Rendement != "" {
		t.Errorf("Rendement = %q, want empty for unlinked sale", sale.Rendement)
	}
	if sale.NetProfit != 1998000 {
		t.Errorf("NetProfit = %v, want 1998000", sale.NetProfit)
	}
}

func TestCreateSaleMissingPurchase(t *testing.T) {
	svc, _, _ := newSaleHarness(t)

	missing := 404
	_, err := svc.CreateSale(context.Background(), &models.CreateSaleRequest{
		PurchaseID: &missing,
		Quantity:   1, Weight: 50, Price: 1000,
	})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for missing purchase, got %v", err)
	}
}
