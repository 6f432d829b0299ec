package services

import (
	"context"
	"testing"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/models"
)

func newPurchaseHarness() (*PurchaseService, *fakeSupplierStore, *fakePurchaseStore, *fakeSaleStore) {
	suppliers := newFakeSupplierStore()
	sales := newFakeSaleStore()
	purchases := newFakePurchaseStore(sales)
	svc := NewPurchaseService(purchases, suppliers, nopTx{})
	return svc, suppliers, purchases, sales
}

func activeSupplier(t *testing.T, store *fakeSupplierStore, name string) *models.Supplier {
	t.Helper()
	s := &models.Supplier{Name: name, Status: models.SupplierActive}
	if err := store.Create(context.Background(), s); err != nil {
		t.Fatalf("creating supplier: %v", err)
	}
	return s
}

func TestCreatePurchaseComputesTotalCost(t *testing.T) {
	svc, suppliers, _, _ := newPurchaseHarness()
	supplier := activeSupplier(t, suppliers, "Pak Budi")

	purchase, err := svc.CreatePurchase(context.Background(), &models.CreatePurchaseRequest{
		Date:       "2026-03-10",
		SupplierID: &supplier.ID,
		Quantity:   100,
		Weight:     50,
		Price:      200000,
		TruckCost:  50000,
		LaborCost:  20000,
	})
	if err != nil {
		t.Fatalf("CreatePurchase() error: %v", err)
	}

	if purchase.TotalCost != 1000070000 {
		t.Errorf("TotalCost = %v, want 1000070000", purchase.TotalCost)
	}
	if purchase.SupplierName != "Pak Budi" {
		t.Errorf("SupplierName = %q, want snapshot of supplier name", purchase.SupplierName)
	}
	if purchase.TotalWeight() != 5000 {
		t.Errorf("TotalWeight() = %v, want 5000", purchase.TotalWeight())
	}
}

func TestCreatePurchaseRejectsInactiveSupplier(t *testing.T) {
	svc, suppliers, _, _ := newPurchaseHarness()
	supplier := activeSupplier(t, suppliers, "Dormant Co")
	supplier.Status = models.SupplierInactive
	if err := suppliers.Update(context.Background(), supplier); err != nil {
		t.Fatalf("deactivating supplier: %v", err)
	}

	_, err := svc.CreatePurchase(context.Background(), &models.CreatePurchaseRequest{
		SupplierID: &supplier.ID,
		Quantity:   10, Weight: 50, Price: 1000,
	})
	if apperrors.KindOf(err) != apperrors.KindBusinessRule {
		t.Fatalf("expected business rule error for inactive supplier, got %v", err)
	}
}

func TestCreatePurchaseRejectsMissingSupplier(t *testing.T) {
	svc, _, _, _ := newPurchaseHarness()

	missing := 99
	_, err := svc.CreatePurchase(context.Background(), &models.CreatePurchaseRequest{
		SupplierID: &missing,
		Quantity:   10, Weight: 50, Price: 1000,
	})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for missing supplier, got %v", err)
	}
}

func TestCreatePurchaseFreeTextSupplier(t *testing.T) {
	svc, _, _, _ := newPurchaseHarness()

	purchase, err := svc.CreatePurchase(context.Background(), &models.CreatePurchaseRequest{
		SupplierName: "walk-in farmer",
		Quantity:     10, Weight: 50, Price: 1000,
	})
	if err != nil {
		t.Fatalf("CreatePurchase() error: %v", err)
	}
	if purchase.SupplierID != nil {
		t.Errorf("SupplierID = %v, want nil", *purchase.SupplierID)
	}
	if purchase.SupplierName != "walk-in farmer" {
		t.Errorf("SupplierName = %q", purchase.SupplierName)
	}
}

func TestUpdatePurchaseRecomputesTotalCost(t *testing.T) {
	svc, suppliers, _, _ := newPurchaseHarness()
	supplier := activeSupplier(t, suppliers, "Pak Budi")

	purchase, err := svc.CreatePurchase(context.Background(), &models.CreatePurchaseRequest{
		SupplierID: &supplier.ID,
		Quantity:   100, Weight: 50, Price: 200000,
		TruckCost: 50000, LaborCost: 20000,
	})
	if err != nil {
		t.Fatalf("CreatePurchase() error: %v", err)
	}

	newQty := 50
	updated, err := svc.UpdatePurchase(context.Background(), purchase.ID, &models.UpdatePurchaseRequest{
		Quantity: &newQty,
	})
	if err != nil {
		t.Fatalf("UpdatePurchase() error: %v", err)
	}

	// 50*50*200000 + 70000
	if updated.TotalCost != 500070000 {
		t.Errorf("TotalCost after update = %v, want 500070000", updated.TotalCost)
	}
}

func TestUpdatePurchaseRejectsInactiveSupplierReassignment(t *testing.T) {
	svc, suppliers, _, _ := newPurchaseHarness()
	active := activeSupplier(t, suppliers, "Active Co")
	inactive := activeSupplier(t, suppliers, "Inactive Co")
	inactive.Status = models.SupplierInactive
	suppliers.Update(context.Background(), inactive)

	purchase, err := svc.CreatePurchase(context.Background(), &models.CreatePurchaseRequest{
		SupplierID: &active.ID,
		Quantity:   10, Weight: 50, Price: 1000,
	})
	if err != nil {
		t.Fatalf("CreatePurchase() error: %v", err)
	}

	_, err = svc.UpdatePurchase(context.Background(), purchase.ID, &models.UpdatePurchaseRequest{
		SupplierID: &inactive.ID,
	})
	if apperrors.KindOf(err) != apperrors.KindBusinessRule {
		t.Fatalf("expected business rule error on reassignment to inactive supplier, got %v", err)
	}
}

func TestDeletePurchaseBlockedBySales(t *testing.T) {
	svc, suppliers, purchases, sales := newPurchaseHarness()
	supplier := activeSupplier(t, suppliers, "Pak Budi")

	purchase, err := svc.CreatePurchase(context.Background(), &models.CreatePurchaseRequest{
		SupplierID: &supplier.ID,
		Quantity:   100, Weight: 50, Price: 200000,
	})
	if err != nil {
		t.Fatalf("CreatePurchase() error: %v", err)
	}

	saleSvc := NewSaleService(sales, purchases, nopTx{})
	if _, err := saleSvc.CreateSale(context.Background(), &models.CreateSaleRequest{
		PurchaseID: &purchase.ID,
		Quantity:   10, Weight: 50, Price: 2500000,
	}); err != nil {
		t.Fatalf("CreateSale() error: %v", err)
	}

	err = svc.DeletePurchase(context.Background(), purchase.ID)
	if apperrors.KindOf(err) != apperrors.KindBusinessRule {
		t.Fatalf("expected business rule error deleting purchase with sales, got %v", err)
	}

	if _, err := svc.GetPurchase(context.Background(), purchase.ID); err != nil {
		t.Errorf("purchase should still exist after rejected delete: %v", err)
	}
}

func TestDeletePurchaseWithoutSales(t *testing.T) {
	svc, suppliers, _, _ := newPurchaseHarness()
	supplier := activeSupplier(t, suppliers, "Pak Budi")

	purchase, err := svc.CreatePurchase(context.Background(), &models.CreatePurchaseRequest{
		SupplierID: &supplier.ID,
		Quantity:   10, Weight: 50, Price: 1000,
	})
	if err != nil {
		t.Fatalf("CreatePurchase() error: %v", err)
	}

	if err := svc.DeletePurchase(context.Background(), purchase.ID); err != nil {
		t.Fatalf("DeletePurchase() error: %v", err)
	}

	if _, err := svc.GetPurchase(context.Background(), purchase.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestCreatePurchaseValidation(t *testing.T) {
	svc, _, _, _ := newPurchaseHarness()

	tests := []struct {
		name string
		req  models.CreatePurchaseRequest
	}{
		{"zero quantity", models.CreatePurchaseRequest{Quantity: 0, Weight: 50, Price: 1000}},
		{"zero weight", models.CreatePurchaseRequest{Quantity: 1, Weight: 0, Price: 1000}},
		{"zero price", models.CreatePurchaseRequest{Quantity: 1, Weight: 50, Price: 0}},
		{"negative truck cost", models.CreatePurchaseRequest{Quantity: 1, Weight: 50, Price: 1000, TruckCost: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePurchase(context.Background(), &tt.req)
			if apperrors.KindOf(err) != apperrors.KindValidation {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
