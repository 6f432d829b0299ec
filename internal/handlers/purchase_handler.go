package handlers

import (
	"encoding/json"
	"net/http"

	"ricemill-backend/internal/models"
	"ricemill-backend/internal/services"
	"ricemill-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PurchaseHandler struct {
	Service *services.PurchaseService
}

func NewPurchaseHandler(s *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{Service: s}
}

// CreatePurchase records a new paddy purchase
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	purchase, err := h.Service.CreatePurchase(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, purchase)
}

// GetPurchase retrieves a purchase by ID
func (h *PurchaseHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	purchase, err := h.Service.GetPurchase(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, purchase)
}

// ListPurchases returns purchases filtered by supplier, date range and cost
func (h *PurchaseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	filter := models.PurchaseFilter{
		SupplierID: queryInt(r, "supplier_id"),
		DateFrom:   queryDate(r, "date_from"),
		DateTo:     queryDate(r, "date_to"),
		MinCost:    queryFloat(r, "min_cost"),
		MaxCost:    queryFloat(r, "max_cost"),
		Limit:      queryIntDefault(r, "limit", 50),
		Offset:     queryIntDefault(r, "offset", 0),
	}

	purchases, err := h.Service.ListPurchases(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, purchases)
}

// UpdatePurchase applies a partial update and recomputes the total cost
func (h *PurchaseHandler) UpdatePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	var req models.UpdatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	purchase, err := h.Service.UpdatePurchase(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, purchase)
}

// DeletePurchase removes a purchase unless sales reference it
func (h *PurchaseHandler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	if err := h.Service.DeletePurchase(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "purchase deleted"})
}
