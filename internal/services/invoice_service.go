package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/metrics"
	"ricemill-backend/internal/models"
)

type InvoiceService struct {
	Invoices InvoiceStore
	Tx       TxRunner
}

func NewInvoiceService(invoices InvoiceStore, tx TxRunner) *InvoiceService {
	return &InvoiceService{Invoices: invoices, Tx: tx}
}

func validateItemInput(item models.InvoiceItemInput) error {
	if strings.TrimSpace(item.Name) == "" {
		return apperrors.Validation("item name is required")
	}
	if item.Quantity < 1 {
		return apperrors.Validation("item quantity must be at least 1")
	}
	if item.Price < 0.01 {
		return apperrors.Validation("item price must be at least 0.01")
	}
	return nil
}

// nextInvoiceNumber builds INV-YYYYMM-NNNN for the invoice date, where NNNN
// continues the highest sequence already issued for that month. Runs inside
// the create transaction so two concurrent creates cannot take the same
// number; the unique index on invoice_number backs it up.
func (s *InvoiceService) nextInvoiceNumber(ctx context.Context, date time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", date.Format("200601"))
	seq, err := s.Invoices.NextSequence(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest) (*models.InvoiceWithItems, error) {
	if strings.TrimSpace(req.Customer) == "" {
		return nil, apperrors.Validation("customer is required")
	}
	for _, item := range req.Items {
		if err := validateItemInput(item); err != nil {
			return nil, err
		}
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if req.DueDate == "" {
		return nil, apperrors.Validation("due_date is required")
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	if dueDate.Before(date) {
		return nil, apperrors.Validation("due_date cannot be before invoice date")
	}

	invoice := &models.Invoice{
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		Date:          date,
		DueDate:       dueDate,
		Customer:      strings.TrimSpace(req.Customer),
		Status:        models.InvoiceUnpaid,
	}

	result := &models.InvoiceWithItems{}

	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		if invoice.InvoiceNumber == "" {
			number, err := s.nextInvoiceNumber(ctx, date)
			if err != nil {
				return err
			}
			invoice.InvoiceNumber = number
		}

		if len(req.Items) > 0 {
			// Items win over any explicitly supplied amount
			var sum float64
			for _, item := range req.Items {
				sum += ItemTotal(item.Quantity, item.Price)
			}
			invoice.Amount = Round2(sum)
		} else if req.Amount != nil {
			if *req.Amount < 0 {
				return apperrors.Validation("amount cannot be negative")
			}
			invoice.Amount = Round2(*req.Amount)
		}

		if err := s.Invoices.Create(ctx, invoice); err != nil {
			return err
		}

		for _, input := range req.Items {
			item := &models.InvoiceItem{
				InvoiceID: invoice.ID,
				Name:      strings.TrimSpace(input.Name),
				Quantity:  input.Quantity,
				Price:     input.Price,
				Total:     ItemTotal(input.Quantity, input.Price),
			}
			if err := s.Invoices.CreateItem(ctx, item); err != nil {
				return err
			}
			result.Items = append(result.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.InvoicesIssued.Inc()
	invalidateDashboard(ctx)
	result.Invoice = *invoice
	return result, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id int) (*models.InvoiceWithItems, error) {
	return s.Invoices.GetWithItems(ctx, id)
}

func (s *InvoiceService) ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error) {
	return s.Invoices.List(ctx, filter)
}

// requireMutable loads an invoice under a row lock and refuses modification
// once it is paid. Callers run inside a transaction, so the lock serializes
// concurrent writes against the same invoice.
func (s *InvoiceService) requireMutable(ctx context.Context, id int) (*models.Invoice, error) {
	invoice, err := s.Invoices.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoicePaid {
		return nil, apperrors.BusinessRule("invoice %s is paid and cannot be modified", invoice.InvoiceNumber)
	}
	return invoice, nil
}

// UpdateInvoice merges the patch onto a mutable invoice. A non-nil Items
// replaces the whole line item set and recomputes the amount; Amount stands
// as given only when the invoice ends up with no items.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id int, req *models.UpdateInvoiceRequest) (*models.InvoiceWithItems, error) {
	var result *models.InvoiceWithItems

	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		invoice, err := s.requireMutable(ctx, id)
		if err != nil {
			return err
		}

		if req.Date != nil {
			date, err := parseDate(*req.Date)
			if err != nil {
				return err
			}
			invoice.Date = date
		}
		if req.DueDate != nil {
			dueDate, err := parseDate(*req.DueDate)
			if err != nil {
				return err
			}
			invoice.DueDate = dueDate
		}
		if invoice.DueDate.Before(invoice.Date) {
			return apperrors.Validation("due_date cannot be before invoice date")
		}
		if req.Customer != nil {
			customer := strings.TrimSpace(*req.Customer)
			if customer == "" {
				return apperrors.Validation("customer is required")
			}
			invoice.Customer = customer
		}

		if req.Items != nil {
			for _, item := range *req.Items {
				if err := validateItemInput(item); err != nil {
					return err
				}
			}
			if err := s.Invoices.DeleteItems(ctx, invoice.ID); err != nil {
				return err
			}
			var sum float64
			for _, input := range *req.Items {
				item := &models.InvoiceItem{
					InvoiceID: invoice.ID,
					Name:      strings.TrimSpace(input.Name),
					Quantity:  input.Quantity,
					Price:     input.Price,
					Total:     ItemTotal(input.Quantity, input.Price),
				}
				if err := s.Invoices.CreateItem(ctx, item); err != nil {
					return err
				}
				sum += item.Total
			}
			invoice.Amount = Round2(sum)
		} else if req.Amount != nil {
			items, err := s.Invoices.ListItems(ctx, invoice.ID)
			if err != nil {
				return err
			}
			if len(items) > 0 {
				return apperrors.BusinessRule("amount of invoice %s is derived from its items", invoice.InvoiceNumber)
			}
			if *req.Amount < 0 {
				return apperrors.Validation("amount cannot be negative")
			}
			invoice.Amount = Round2(*req.Amount)
		}

		if err := s.Invoices.Update(ctx, invoice); err != nil {
			return err
		}

		result, err = s.Invoices.GetWithItems(ctx, invoice.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return result, nil
}

// MarkAsPaid transitions an unpaid invoice to paid. Paying twice is rejected.
func (s *InvoiceService) MarkAsPaid(ctx context.Context, id int) (*models.Invoice, error) {
	var invoice *models.Invoice

	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		invoice, err = s.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if invoice.Status == models.InvoicePaid {
			return apperrors.BusinessRule("invoice %s is already paid", invoice.InvoiceNumber)
		}
		invoice.Status = models.InvoicePaid
		return s.Invoices.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return invoice, nil
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, id int) error {
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.requireMutable(ctx, id); err != nil {
			return err
		}
		return s.Invoices.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	invalidateDashboard(ctx)
	return nil
}

// AddItem appends a line item to a mutable invoice and recomputes its amount
func (s *InvoiceService) AddItem(ctx context.Context, invoiceID int, input models.InvoiceItemInput) (*models.InvoiceItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	item := &models.InvoiceItem{
		InvoiceID: invoiceID,
		Name:      strings.TrimSpace(input.Name),
		Quantity:  input.Quantity,
		Price:     input.Price,
		Total:     ItemTotal(input.Quantity, input.Price),
	}

	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.requireMutable(ctx, invoiceID); err != nil {
			return err
		}
		if err := s.Invoices.CreateItem(ctx, item); err != nil {
			return err
		}
		return s.recomputeAmount(ctx, invoiceID)
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return item, nil
}

// UpdateItem patches one line item, recomputing its total and the invoice
// amount
func (s *InvoiceService) UpdateItem(ctx context.Context, invoiceID, itemID int, req *models.UpdateInvoiceItemRequest) (*models.InvoiceItem, error) {
	var item *models.InvoiceItem

	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.requireMutable(ctx, invoiceID); err != nil {
			return err
		}

		var err error
		item, err = s.Invoices.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item.InvoiceID != invoiceID {
			return apperrors.NotFound("invoice item", itemID)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperrors.Validation("item name is required")
			}
			item.Name = name
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if item.Quantity < 1 {
			return apperrors.Validation("item quantity must be at least 1")
		}
		if item.Price < 0.01 {
			return apperrors.Validation("item price must be at least 0.01")
		}
		item.Total = ItemTotal(item.Quantity, item.Price)

		if err := s.Invoices.UpdateItem(ctx, item); err != nil {
			return err
		}
		return s.recomputeAmount(ctx, invoiceID)
	})
	if err != nil {
		return nil, err
	}
	invalidateDashboard(ctx)
	return item, nil
}

// DeleteItem removes one line item from a mutable invoice. An invoice whose
// last item is removed keeps amount 0 until items are added or an explicit
// amount is set.
func (s *InvoiceService) DeleteItem(ctx context.Context, invoiceID, itemID int) error {
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.requireMutable(ctx, invoiceID); err != nil {
			return err
		}

		item, err := s.Invoices.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item.InvoiceID != invoiceID {
			return apperrors.NotFound("invoice item", itemID)
		}

		if err := s.Invoices.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		return s.recomputeAmount(ctx, invoiceID)
	})
	if err != nil {
		return err
	}
	invalidateDashboard(ctx)
	return nil
}

func (s *InvoiceService) recomputeAmount(ctx context.Context, invoiceID int) error {
	items, err := s.Invoices.ListItems(ctx, invoiceID)
	if err != nil {
		return err
	}
	return s.Invoices.UpdateAmount(ctx, invoiceID, SumItemTotals(items))
}
