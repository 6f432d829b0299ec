package services

import (
	"context"
	"fmt"
	"strings"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/models"
)

// nopTx runs the function directly. The service-level invariants do not
// depend on real transaction semantics, only on the check-then-write order.
type nopTx struct{}

func (nopTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSupplierStore struct {
	nextID    int
	suppliers map[int]*models.Supplier
}

func newFakeSupplierStore() *fakeSupplierStore {
	return &fakeSupplierStore{suppliers: make(map[int]*models.Supplier)}
}

func (f *fakeSupplierStore) Create(ctx context.Context, s *models.Supplier) error {
	for _, existing := range f.suppliers {
		if strings.EqualFold(existing.Name, s.Name) {
			return apperrors.Conflict("supplier %q already exists", s.Name)
		}
	}
	f.nextID++
	s.ID = f.nextID
	copied := *s
	f.suppliers[s.ID] = &copied
	return nil
}

func (f *fakeSupplierStore) Get(ctx context.Context, id int) (*models.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok {
		return nil, apperrors.NotFound("supplier", id)
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSupplierStore) List(ctx context.Context, filter models.SupplierFilter) ([]*models.Supplier, error) {
	var out []*models.Supplier
	for _, s := range f.suppliers {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeSupplierStore) Update(ctx context.Context, s *models.Supplier) error {
	if _, ok := f.suppliers[s.ID]; !ok {
		return apperrors.NotFound("supplier", s.ID)
	}
	copied := *s
	f.suppliers[s.ID] = &copied
	return nil
}

func (f *fakeSupplierStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.suppliers[id]; !ok {
		return apperrors.NotFound("supplier", id)
	}
	delete(f.suppliers, id)
	return nil
}

type fakePurchaseStore struct {
	nextID    int
	purchases map[int]*models.Purchase
	sales     *fakeSaleStore
}

func newFakePurchaseStore(sales *fakeSaleStore) *fakePurchaseStore {
	return &fakePurchaseStore{purchases: make(map[int]*models.Purchase), sales: sales}
}

func (f *fakePurchaseStore) Create(ctx context.Context, p *models.Purchase) error {
	f.nextID++
	p.ID = f.nextID
	copied := *p
	f.purchases[p.ID] = &copied
	return nil
}

func (f *fakePurchaseStore) Get(ctx context.Context, id int) (*models.Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return nil, apperrors.NotFound("purchase", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakePurchaseStore) GetForUpdate(ctx context.Context, id int) (*models.Purchase, error) {
	return f.Get(ctx, id)
}

func (f *fakePurchaseStore) List(ctx context.Context, filter models.PurchaseFilter) ([]*models.Purchase, error) {
	var out []*models.Purchase
	for _, p := range f.purchases {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakePurchaseStore) Update(ctx context.Context, p *models.Purchase) error {
	if _, ok := f.purchases[p.ID]; !ok {
		return apperrors.NotFound("purchase", p.ID)
	}
	copied := *p
	f.purchases[p.ID] = &copied
	return nil
}

func (f *fakePurchaseStore) HasSales(ctx context.Context, id int) (bool, error) {
	if f.sales == nil {
		return false, nil
	}
	for _, s := range f.sales.sales {
		if s.PurchaseID != nil && *s.PurchaseID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePurchaseStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.purchases[id]; !ok {
		return apperrors.NotFound("purchase", id)
	}
	delete(f.purchases, id)
	return nil
}

type fakeSaleStore struct {
	nextID int
	sales  map[int]*models.Sale
}

func newFakeSaleStore() *fakeSaleStore {
	return &fakeSaleStore{sales: make(map[int]*models.Sale)}
}

func (f *fakeSaleStore) Create(ctx context.Context, s *models.Sale) error {
	f.nextID++
	s.ID = f.nextID
	copied := *s
	f.sales[s.ID] = &copied
	return nil
}

func (f *fakeSaleStore) Get(ctx context.Context, id int) (*models.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, apperrors.NotFound("sale", id)
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSaleStore) List(ctx context.Context, filter models.SaleFilter) ([]*models.Sale, error) {
	var out []*models.Sale
	for _, s := range f.sales {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeSaleStore) Update(ctx context.Context, s *models.Sale) error {
	if _, ok := f.sales[s.ID]; !ok {
		return apperrors.NotFound("sale", s.ID)
	}
	copied := *s
	f.sales[s.ID] = &copied
	return nil
}

func (f *fakeSaleStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.sales[id]; !ok {
		return apperrors.NotFound("sale", id)
	}
	delete(f.sales, id)
	return nil
}

func (f *fakeSaleStore) SumSoldWeight(ctx context.Context, purchaseID, excludeSaleID int) (float64, error) {
	var sum float64
	for _, s := range f.sales {
		if s.PurchaseID == nil || *s.PurchaseID != purchaseID {
			continue
		}
		if excludeSaleID != 0 && s.ID == excludeSaleID {
			continue
		}
		sum += s.SoldWeight()
	}
	return sum, nil
}

type fakeInvoiceStore struct {
	nextID      int
	nextItemID  int
	lockedReads int
	invoices    map[int]*models.Invoice
	items       map[int]*models.InvoiceItem
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{
		invoices: make(map[int]*models.Invoice),
		items:    make(map[int]*models.InvoiceItem),
	}
}

func (f *fakeInvoiceStore) NextSequence(ctx context.Context, prefix string) (int, error) {
	max := 0
	for _, inv := range f.invoices {
		if !strings.HasPrefix(inv.InvoiceNumber, prefix) {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(inv.InvoiceNumber[len(prefix):], "%d", &n); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

func (f *fakeInvoiceStore) Create(ctx context.Context, inv *models.Invoice) error {
	for _, existing := range f.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return apperrors.Conflict("invoice number %s already exists", inv.InvoiceNumber)
		}
	}
	f.nextID++
	inv.ID = f.nextID
	copied := *inv
	f.invoices[inv.ID] = &copied
	return nil
}

func (f *fakeInvoiceStore) Get(ctx context.Context, id int) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, apperrors.NotFound("invoice", id)
	}
	copied := *inv
	return &copied, nil
}

func (f *fakeInvoiceStore) GetForUpdate(ctx context.Context, id int) (*models.Invoice, error) {
	f.lockedReads++
	return f.Get(ctx, id)
}

func (f *fakeInvoiceStore) GetWithItems(ctx context.Context, id int) (*models.InvoiceWithItems, error) {
	inv, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, _ := f.ListItems(ctx, id)
	return &models.InvoiceWithItems{Invoice: *inv, Items: items}, nil
}

func (f *fakeInvoiceStore) List(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for _, inv := range f.invoices {
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		copied := *inv
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeInvoiceStore) Update(ctx context.Context, inv *models.Invoice) error {
	if _, ok := f.invoices[inv.ID]; !ok {
		return apperrors.NotFound("invoice", inv.ID)
	}
	copied := *inv
	f.invoices[inv.ID] = &copied
	return nil
}

func (f *fakeInvoiceStore) UpdateAmount(ctx context.Context, id int, amount float64) error {
	inv, ok := f.invoices[id]
	if !ok {
		return apperrors.NotFound("invoice", id)
	}
	inv.Amount = amount
	return nil
}

func (f *fakeInvoiceStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.invoices[id]; !ok {
		return apperrors.NotFound("invoice", id)
	}
	delete(f.invoices, id)
	f.DeleteItems(ctx, id)
	return nil
}

func (f *fakeInvoiceStore) CreateItem(ctx context.Context, item *models.InvoiceItem) error {
	f.nextItemID++
	item.ID = f.nextItemID
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeInvoiceStore) GetItem(ctx context.Context, itemID int) (*models.InvoiceItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, apperrors.NotFound("invoice item", itemID)
	}
	copied := *item
	return &copied, nil
}

func (f *fakeInvoiceStore) ListItems(ctx context.Context, invoiceID int) ([]models.InvoiceItem, error) {
	var out []models.InvoiceItem
	for id := 1; id <= f.nextItemID; id++ {
		if item, ok := f.items[id]; ok && item.InvoiceID == invoiceID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeInvoiceStore) UpdateItem(ctx context.Context, item *models.InvoiceItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return apperrors.NotFound("invoice item", item.ID)
	}
	copied := *item
	f.items[item.ID] = &copied
	return nil
}

func (f *fakeInvoiceStore) DeleteItem(ctx context.Context, itemID int) error {
	if _, ok := f.items[itemID]; !ok {
		return apperrors.NotFound("invoice item", itemID)
	}
	delete(f.items, itemID)
	return nil
}

func (f *fakeInvoiceStore) DeleteItems(ctx context.Context, invoiceID int) error {
	for id, item := range f.items {
		if item.InvoiceID == invoiceID {
			delete(f.items, id)
		}
	}
	return nil
}
