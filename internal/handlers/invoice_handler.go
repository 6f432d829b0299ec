package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ricemill-backend/internal/models"
	"ricemill-backend/internal/services"
	"ricemill-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
}

func NewInvoiceHandler(s *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

// CreateInvoice creates a new invoice, generating its number when absent
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	invoice, err := h.Service.CreateInvoice(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, invoice)
}

// GetInvoice retrieves an invoice with its line items
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}

// ListInvoices returns invoices filtered by status, customer and date range
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	filter := models.InvoiceFilter{
		Status:   r.URL.Query().Get("status"),
		Customer: r.URL.Query().Get("customer"),
		DateFrom: queryDate(r, "date_from"),
		DateTo:   queryDate(r, "date_to"),
		Limit:    queryIntDefault(r, "limit", 50),
		Offset:   queryIntDefault(r, "offset", 0),
	}

	invoices, err := h.Service.ListInvoices(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoices)
}

// UpdateInvoice applies a partial update to an unpaid invoice
func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var req models.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	invoice, err := h.Service.UpdateInvoice(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}

// MarkAsPaid transitions an invoice to paid
func (h *InvoiceHandler) MarkAsPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := h.Service.MarkAsPaid(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, invoice)
}

// DeleteInvoice removes an unpaid invoice and its items
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	if err := h.Service.DeleteInvoice(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "invoice deleted"})
}

// AddItem appends a line item to an unpaid invoice
func (h *InvoiceHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var input models.InvoiceItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.Service.AddItem(r.Context(), id, input)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, item)
}

// UpdateItem patches a line item on an unpaid invoice
func (h *InvoiceHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	invoiceID, ok := pathID(vars["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}
	itemID, ok := pathID(vars["item_id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req models.UpdateInvoiceItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), invoiceID, itemID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, item)
}

// DeleteItem removes a line item from an unpaid invoice
func (h *InvoiceHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	invoiceID, ok := pathID(vars["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}
	itemID, ok := pathID(vars["item_id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.Service.DeleteItem(r.Context(), invoiceID, itemID); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// DownloadPDF streams the invoice as a printable PDF
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	pdf, err := h.Service.GenerateInvoicePDF(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%d.pdf"`, id))
	w.Write(pdf)
}
