package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ricemill-backend/internal/apperrors"
	"ricemill-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `id, invoice_number, date, due_date, customer, status, amount, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.Date, &inv.DueDate, &inv.Customer,
		&inv.Status, &inv.Amount, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// NextSequence returns the next sequence number for invoices whose number
// starts with prefix (e.g. "INV-202401-"). The suffix is compared numerically
// so sequences past 9999 keep counting up instead of sorting below the
// 4-digit ones. Runs inside the creation transaction so concurrent creates in
// the same month cannot collide.
func (r *InvoiceRepository) NextSequence(ctx context.Context, prefix string) (int, error) {
	var last int
	err := q(ctx, r.DB).QueryRow(ctx,
		`SELECT COALESCE(MAX(CAST(SUBSTRING(invoice_number FROM CHAR_LENGTH($1) + 1) AS INTEGER)), 0)
		 FROM invoices WHERE invoice_number LIKE $1 || '%'`,
		prefix,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("failed to query last invoice number: %w", err)
	}
	return last + 1, nil
}

// Create inserts an invoice row (items are inserted separately since they
// need the parent id first)
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	err := q(ctx, r.DB).QueryRow(ctx,
		`INSERT INTO invoices(invoice_number, date, due_date, customer, status, amount)
		 VALUES($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		inv.InvoiceNumber, inv.Date, inv.DueDate, inv.Customer, inv.Status, inv.Amount,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)

	if isUniqueViolation(err) {
		return apperrors.Conflict("invoice number %q already exists", inv.InvoiceNumber)
	}
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// Get retrieves an invoice by ID without items
func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.Invoice, error) {
	inv, err := scanInvoice(q(ctx, r.DB).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("invoice", id)
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetForUpdate retrieves an invoice and locks its row until the surrounding
// transaction ends
func (r *InvoiceRepository) GetForUpdate(ctx context.Context, id int) (*models.Invoice, error) {
	inv, err := scanInvoice(q(ctx, r.DB).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("invoice", id)
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetWithItems retrieves an invoice and its line items
func (r *InvoiceRepository) GetWithItems(ctx context.Context, id int) (*models.InvoiceWithItems, error) {
	inv, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.InvoiceWithItems{Invoice: *inv, Items: items}, nil
}

// List returns invoices matching the filter, newest first
func (r *InvoiceRepository) List(ctx context.Context, filter models.InvoiceFilter) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	var conds []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Customer != "" {
		args = append(args, "%"+strings.ToLower(filter.Customer)+"%")
		conds = append(conds, fmt.Sprintf("LOWER(customer) LIKE $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := q(ctx, r.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Update persists invoice header fields (not items)
func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	tag, err := q(ctx, r.DB).Exec(ctx,
		`UPDATE invoices
		 SET date = $1, due_date = $2, customer = $3, status = $4, amount = $5, updated_at = NOW()
		 WHERE id = $6`,
		inv.Date, inv.DueDate, inv.Customer, inv.Status, inv.Amount, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("invoice", inv.ID)
	}
	return nil
}

// UpdateAmount patches only the derived amount
func (r *InvoiceRepository) UpdateAmount(ctx context.Context, id int, amount float64) error {
	tag, err := q(ctx, r.DB).Exec(ctx,
		`UPDATE invoices SET amount = $1, updated_at = NOW() WHERE id = $2`, amount, id)
	if err != nil {
		return fmt.Errorf("failed to update invoice amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("invoice", id)
	}
	return nil
}

// Delete removes an invoice; items cascade at the database level
func (r *InvoiceRepository) Delete(ctx context.Context, id int) error {
	tag, err := q(ctx, r.DB).Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("invoice", id)
	}
	return nil
}

// CreateItem inserts one line item with its precomputed total
func (r *InvoiceRepository) CreateItem(ctx context.Context, item *models.InvoiceItem) error {
	err := q(ctx, r.DB).QueryRow(ctx,
		`INSERT INTO invoice_items(invoice_id, name, quantity, price, total)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		item.InvoiceID, item.Name, item.Quantity, item.Price, item.Total,
	).Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create invoice item: %w", err)
	}
	return nil
}

// GetItem retrieves one line item by ID
func (r *InvoiceRepository) GetItem(ctx context.Context, itemID int) (*models.InvoiceItem, error) {
	var item models.InvoiceItem
	err := q(ctx, r.DB).QueryRow(ctx,
		`SELECT id, invoice_id, name, quantity, price, total, created_at
		 FROM invoice_items WHERE id = $1`, itemID,
	).Scan(&item.ID, &item.InvoiceID, &item.Name, &item.Quantity, &item.Price,
		&item.Total, &item.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("invoice item", itemID)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns all line items of an invoice
func (r *InvoiceRepository) ListItems(ctx context.Context, invoiceID int) ([]models.InvoiceItem, error) {
	rows, err := q(ctx, r.DB).Query(ctx,
		`SELECT id, invoice_id, name, quantity, price, total, created_at
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Name, &item.Quantity,
			&item.Price, &item.Total, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem persists one line item including its recomputed total
func (r *InvoiceRepository) UpdateItem(ctx context.Context, item *models.InvoiceItem) error {
	tag, err := q(ctx, r.DB).Exec(ctx,
		`UPDATE invoice_items SET name = $1, quantity = $2, price = $3, total = $4
		 WHERE id = $5`,
		item.Name, item.Quantity, item.Price, item.Total, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("invoice item", item.ID)
	}
	return nil
}

// DeleteItem removes one line item
func (r *InvoiceRepository) DeleteItem(ctx context.Context, itemID int) error {
	tag, err := q(ctx, r.DB).Exec(ctx, `DELETE FROM invoice_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("invoice item", itemID)
	}
	return nil
}

// DeleteItems removes all line items of an invoice (item-set replacement)
func (r *InvoiceRepository) DeleteItems(ctx context.Context, invoiceID int) error {
	_, err := q(ctx, r.DB).Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice items: %w", err)
	}
	return nil
}
