package handlers

import (
	"encoding/json"
	"net/http"

	"ricemill-backend/internal/models"
	"ricemill-backend/internal/services"
	"ricemill-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type SaleHandler struct {
	Service *services.SaleService
}

func NewSaleHandler(s *services.SaleService) *SaleHandler {
	return &SaleHandler{Service: s}
}

// CreateSale records a new rice sale
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sale, err := h.Service.CreateSale(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, sale)
}

// GetSale retrieves a sale by ID
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid sale ID")
		return
	}

	sale, err := h.Service.GetSale(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, sale)
}

// ListSales returns sales filtered by purchase and date range
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	filter := models.SaleFilter{
		PurchaseID: queryInt(r, "purchase_id"),
		DateFrom:   queryDate(r, "date_from"),
		DateTo:     queryDate(r, "date_to"),
		Limit:      queryIntDefault(r, "limit", 50),
		Offset:     queryIntDefault(r, "offset", 0),
	}

	sales, err := h.Service.ListSales(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, sales)
}

// UpdateSale applies a partial update, re-checking inventory against the
// linked purchase
func (h *SaleHandler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid sale ID")
		return
	}

	var req models.UpdateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sale, err := h.Service.UpdateSale(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, sale)
}

// DeleteSale removes a sale
func (h *SaleHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid sale ID")
		return
	}

	if err := h.Service.DeleteSale(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "sale deleted"})
}
