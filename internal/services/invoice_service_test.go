package services

import (
	"context"
	"strings"
	"testing"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/models"
)

func newInvoiceService() (*InvoiceService, *fakeInvoiceStore) {
	store := newFakeInvoiceStore()
	return NewInvoiceService(store, nopTx{}), store
}

func createTestInvoice(t *testing.T, svc *InvoiceService, items []models.InvoiceItemInput) *models.InvoiceWithItems {
	t.Helper()
	inv, err := svc.CreateInvoice(context.Background(), &models.CreateInvoiceRequest{
		Date:     "2026-03-05",
		DueDate:  "2026-04-04",
		Customer: "Toko Sari",
		Items:    items,
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error: %v", err)
	}
	return inv
}

func TestCreateInvoiceGeneratesSequentialNumbers(t *testing.T) {
	svc, _ := newInvoiceService()

	first := createTestInvoice(t, svc, nil)
	second := createTestInvoice(t, svc, nil)

	if first.InvoiceNumber != "INV-202603-0001" {
		t.Errorf("first number = %q, want INV-202603-0001", first.InvoiceNumber)
	}
	if second.InvoiceNumber != "INV-202603-0002" {
		t.Errorf("second number = %q, want INV-202603-0002", second.InvoiceNumber)
	}

	// A different month restarts the sequence
	other, err := svc.CreateInvoice(context.Background(), &models.CreateInvoiceRequest{
		Date:     "2026-04-01",
		DueDate:  "2026-04-30",
		Customer: "Toko Sari",
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error: %v", err)
	}
	if other.InvoiceNumber != "INV-202604-0001" {
		t.Errorf("new month number = %q, want INV-202604-0001", other.InvoiceNumber)
	}
}

func TestCreateInvoiceAmountFromItems(t *testing.T) {
	svc, _ := newInvoiceService()

	inv := createTestInvoice(t, svc, []models.InvoiceItemInput{
		{Name: "Beras premium", Quantity: 10, Price: 300000},
		{Name: "Karung", Quantity: 10, Price: 4000},
	})

	if inv.Amount != 3040000 {
		t.Errorf("Amount = %v, want 3040000", inv.Amount)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(inv.Items))
	}
	if inv.Items[0].Total != 3000000 {
		t.Errorf("first item total = %v, want 3000000", inv.Items[0].Total)
	}
	if inv.Status != models.InvoiceUnpaid {
		t.Errorf("Status = %q, want unpaid", inv.Status)
	}
}

func TestCreateInvoiceExplicitAmountWithoutItems(t *testing.T) {
	svc, _ := newInvoiceService()

	amount := 750000.0
	inv, err := svc.CreateInvoice(context.Background(), &models.CreateInvoiceRequest{
		Date:     "2026-03-05",
		DueDate:  "2026-03-20",
		Customer: "Toko Sari",
		Amount:   &amount,
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error: %v", err)
	}
	if inv.Amount != 750000 {
		t.Errorf("Amount = %v, want explicit 750000", inv.Amount)
	}
}

func TestCreateInvoiceItemsWinOverExplicitAmount(t *testing.T) {
	svc, _ := newInvoiceService()

	amount := 1.0
	inv, err := svc.CreateInvoice(context.Background(), &models.CreateInvoiceRequest{
		Date:     "2026-03-05",
		DueDate:  "2026-03-20",
		Customer: "Toko Sari",
		Amount:   &amount,
		Items:    []models.InvoiceItemInput{{Name: "Beras", Quantity: 2, Price: 500}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error: %v", err)
	}
	if inv.Amount != 1000 {
		t.Errorf("Amount = %v, want 1000 from items", inv.Amount)
	}
}

func TestCreateInvoiceDueDateBeforeDate(t *testing.T) {
	svc, _ := newInvoiceService()

	_, err := svc.CreateInvoice(context.Background(), &models.CreateInvoiceRequest{
		Date:     "2026-03-05",
		DueDate:  "2026-03-01",
		Customer: "Toko Sari",
	})
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemRecomputesAmount(t *testing.T) {
	svc, _ := newInvoiceService()
	inv := createTestInvoice(t, svc, []models.InvoiceItemInput{
		{Name: "Beras", Quantity: 10, Price: 300000},
	})

	if _, err := svc.AddItem(context.Background(), inv.ID, models.InvoiceItemInput{
		Name: "Karung", Quantity: 10, Price: 4000,
	}); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}

	got, err := svc.GetInvoice(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice() error: %v", err)
	}
	if got.Amount != 3040000 {
		t.Errorf("Amount = %v, want 3040000 after adding item", got.Amount)
	}
}

func TestDeleteItemRecomputesAmount(t *testing.T) {
	svc, _ := newInvoiceService()
	inv := createTestInvoice(t, svc, []models.InvoiceItemInput{
		{Name: "Beras", Quantity: 10, Price: 300000},
		{Name: "Karung", Quantity: 10, Price: 4000},
	})

	if err := svc.DeleteItem(context.Background(), inv.ID, inv.Items[1].ID); err != nil {
		t.Fatalf("DeleteItem() error: %v", err)
	}

	got, _ := svc.GetInvoice(context.Background(), inv.ID)
	if got.Amount != 3000000 {
		t.Errorf("Amount = %v, want 3000000 after removing item", got.Amount)
	}

	// Removing the last item drops the amount to zero
	if err := svc.DeleteItem(context.Background(), inv.ID, inv.Items[0].ID); err != nil {
		t.Fatalf("DeleteItem() error: %v", err)
	}
	got, _ = svc.GetInvoice(context.Background(), inv.ID)
	if got.Amount != 0 {
		t.Errorf("Amount = %v, want 0 with no items", got.Amount)
	}
}

func TestPaidInvoiceRejectsItemMutation(t *testing.T) {
	svc, _ := newInvoiceService()
	inv := createTestInvoice(t, svc, []models.InvoiceItemInput{
		{Name: "Beras", Quantity: 10, Price: 300000},
	})

	if _, err := svc.MarkAsPaid(context.Background(), inv.ID); err != nil {
		t.Fatalf("MarkAsPaid() error: %v", err)
	}

	_, err := svc.AddItem(context.Background(), inv.ID, models.InvoiceItemInput{
		Name: "Karung", Quantity: 1, Price: 4000,
	})
	if apperrors.KindOf(err) != apperrors.KindBusinessRule {
		t.Fatalf("expected business rule error adding item to paid invoice, got %v", err)
	}
	if !strings.Contains(err.Error(), "paid") {
		t.Errorf("error should mention paid state, got %q", err.Error())
	}

	got, _ := svc.GetInvoice(context.Background(), inv.ID)
	if got.Amount != 3000000 {
		t.Errorf("Amount = %v, want unchanged 3000000", got.Amount)
	}
	if len(got.Items) != 1 {
		t.Errorf("items = %d, want unchanged 1", len(got.Items))
	}
}

func TestMarkAsPaidTwiceRejected(t *testing.T) {
	svc, _ := newInvoiceService()
	inv := createTestInvoice(t, svc, nil)

	if _, err := svc.MarkAsPaid(context.Background(), inv.ID); err != nil {
		t.Fatalf("first MarkAsPaid() error: %v", err)
	}

	_, err := svc.MarkAsPaid(context.Background(), inv.ID)
	if apperrors.KindOf(err) != apperrors.KindBusinessRule {
		t.Fatalf("expected business rule error on second MarkAsPaid, got %v", err)
	}

	got, _ := svc.GetInvoice(context.Background(), inv.ID)
	if got.Status != models.InvoicePaid {
		t.Errorf("Status = %q, want still paid", got.Status)
	}
}

func TestUpdateInvoiceReplacesItems(t *testing.T) {
	svc, _ := newInvoiceService()
	inv := createTestInvoice(t, svc, []models.InvoiceItemInput{
		{Name: "Beras", Quantity: 10, Price: 300000},
	})

	newItems := []models.InvoiceItemInput{
		{Name: "Beras medium", Quantity: 5, Price: 200000},
		{Name: "Karung", Quantity: 5, Price: 4000},
	}
	updated, err := svc.UpdateInvoice(context.Background(), inv.ID, &models.UpdateInvoiceRequest{
		Items: &newItems,
	})
	if err != nil {
		t.Fatalf("UpdateInvoice() error: %v", err)
	}

	if len(updated.Items) != 2 {
		t.Fatalf("items = %d, want replaced set of 2", len(updated.Items))
	}
	if updated.Amount != 1020000 {
		t.Errorf("Amount = %v, want 1020000", updated.Amount)
	}
}

func TestUpdateInvoiceExplicitAmountRejectedWithItems(t *testing.T) {
	svc, _ := newInvoiceService()
	inv := createTestInvoice(t, svc, []models.InvoiceItemInput{
		{Name: "Beras", Quantity: 10, Price: 300000},
	})

	amount := 5.0
	_, err := svc.UpdateInvoice(context.Background(), inv.ID, &models.UpdateInvoiceRequest{
		Amount: &amount,
	})
	if apperrors.KindOf(err) != apperrors.KindBusinessRule {
		t.Fatalf("expected business rule error setting amount on itemized invoice, got %v", err)
	}
}

func TestDeletePaidInvoiceRejected(t *testing.T) {
	svc, _ := newInvoiceService()
	inv := createTestInvoice(t, svc, nil)

	if _, err := svc.MarkAsPaid(context.Background(), inv.ID); err != nil {
		t.Fatalf("MarkAsPaid() error: %v", err)
	}

	err := svc.DeleteInvoice(context.Background(), inv.ID)
	if apperrors.KindOf(err) != apperrors.KindBusinessRule {
		t.Fatalf("expected business rule error deleting paid invoice, got %v", err)
	}
}

func TestUpdateItemOnWrongInvoice(t *testing.T) {
	svc, _ := newInvoiceService()
	first := createTestInvoice(t, svc, []models.InvoiceItemInput{
		{Name: "Beras", Quantity: 1, Price: 1000},
	})
	second := createTestInvoice(t, svc, nil)

	name := "Renamed"
	_, err := svc.UpdateItem(context.Background(), second.ID, first.Items[0].ID, &models.UpdateInvoiceItemRequest{
		Name: &name,
	})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for item of another invoice, got %v", err)
	}
}

func TestItemPriceBelowMinimumRejected(t *testing.T) {
	svc, _ := newInvoiceService()
	ctx := context.Background()

	// The schema requires price >= 0.01; a free line item must not get
	// past service validation either.
	_, err := svc.CreateInvoice(ctx, &models.CreateInvoiceRequest{
		Date:     "2026-03-05",
		DueDate:  "2026-04-04",
		Customer: "Toko Sari",
		Items:    []models.InvoiceItemInput{{Name: "Beras gratis", Quantity: 1, Price: 0}},
	})
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("CreateInvoice zero price: kind = %v, want validation", apperrors.KindOf(err))
	}

	inv := createTestInvoice(t, svc, []models.InvoiceItemInput{
		{Name: "Beras premium", Quantity: 10, Price: 300000},
	})

	_, err = svc.AddItem(ctx, inv.ID, models.InvoiceItemInput{Name: "Beras gratis", Quantity: 1, Price: 0})
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("AddItem zero price: kind = %v, want validation", apperrors.KindOf(err))
	}

	zero := 0.0
	_, err = svc.UpdateItem(ctx, inv.ID, inv.Items[0].ID, &models.UpdateInvoiceItemRequest{Price: &zero})
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("UpdateItem zero price: kind = %v, want validation", apperrors.KindOf(err))
	}

	got, err := svc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice() error: %v", err)
	}
	if got.Amount != 3000000 {
		t.Errorf("Amount after rejected items = %v, want 3000000", got.Amount)
	}

	// The documented floor itself is fine
	if _, err := svc.AddItem(ctx, inv.ID, models.InvoiceItemInput{Name: "Karung bekas", Quantity: 1, Price: 0.01}); err != nil {
		t.Errorf("AddItem price 0.01: unexpected error: %v", err)
	}
}

func TestInvoiceSequencePastFourDigits(t *testing.T) {
	svc, store := newInvoiceService()
	ctx := context.Background()

	// A busy month that already crossed 9999 keeps counting up; the suffix
	// is compared numerically, not as text.
	for _, number := range []string{"INV-202605-9999", "INV-202605-10000"} {
		err := store.Create(ctx, &models.Invoice{
			InvoiceNumber: number,
			Customer:      "Toko Sari",
			Status:        models.InvoiceUnpaid,
		})
		if err != nil {
			t.Fatalf("seed %s: %v", number, err)
		}
	}

	inv, err := svc.CreateInvoice(ctx, &models.CreateInvoiceRequest{
		Date:     "2026-05-20",
		DueDate:  "2026-06-19",
		Customer: "Toko Sari",
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error: %v", err)
	}
	if inv.InvoiceNumber != "INV-202605-10001" {
		t.Errorf("number = %q, want INV-202605-10001", inv.InvoiceNumber)
	}
}

func TestInvoiceWritesReadUnderLock(t *testing.T) {
	svc, store := newInvoiceService()
	inv := createTestInvoice(t, svc, nil)

	if _, err := svc.MarkAsPaid(context.Background(), inv.ID); err != nil {
		t.Fatalf("MarkAsPaid() error: %v", err)
	}
	if store.lockedReads == 0 {
		t.Error("MarkAsPaid read the invoice without locking its row")
	}
}
