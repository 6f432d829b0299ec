package services

import (
	"bytes"
	"context"
	"fmt"

	"ricemill-backend/internal/models"
	"ricemill-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// GenerateInvoicePDF renders a printable A4 invoice with its line items
func (s *InvoiceService) GenerateInvoicePDF(ctx context.Context, id int) ([]byte, error) {
	data, err := s.Invoices.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return renderInvoicePDF(data)
}

func renderInvoicePDF(data *models.InvoiceWithItems) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Rice Mill - Invoice", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout + " 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Invoice Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Invoice Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Number: %s", data.InvoiceNumber), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", data.Customer), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", data.Date.Format(timeutil.DisplayLayout)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Due: %s", data.DueDate.Format(timeutil.DisplayLayout)), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Line items
	if len(data.Items) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Items", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(80, 7, "Description", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Price", "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 7, "Total", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, item := range data.Items {
			name := item.Name
			if len(name) > 40 {
				name = name[:37] + "..."
			}
			pdf.CellFormat(80, 6, name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("Rp %.2f", item.Price), "1", 0, "R", false, 0, "")
			pdf.CellFormat(45, 6, fmt.Sprintf("Rp %.2f", item.Total), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(5)
	}

	// Total - highlight unpaid
	if data.Status == models.InvoicePaid {
		pdf.SetFillColor(200, 255, 200)
	} else {
		pdf.SetFillColor(255, 200, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	statusText := fmt.Sprintf("Amount Due: Rp %.2f", data.Amount)
	if data.Status == models.InvoicePaid {
		statusText = fmt.Sprintf("PAID - Rp %.2f", data.Amount)
	}
	pdf.CellFormat(190, 10, statusText, "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
