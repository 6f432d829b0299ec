package handlers

import (
	"encoding/json"
	"net/http"

	"ricemill-backend/internal/models"
	"ricemill-backend/internal/services"
	"ricemill-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type SupplierHandler struct {
	Service *services.SupplierService
}

func NewSupplierHandler(s *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{Service: s}
}

// CreateSupplier registers a new supplier
func (h *SupplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	supplier, err := h.Service.CreateSupplier(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, supplier)
}

// GetSupplier retrieves a supplier by ID
func (h *SupplierHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid supplier ID")
		return
	}

	supplier, err := h.Service.GetSupplier(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, supplier)
}

// ListSuppliers returns suppliers filtered by status and name search
func (h *SupplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	filter := models.SupplierFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
		Limit:  queryIntDefault(r, "limit", 50),
		Offset: queryIntDefault(r, "offset", 0),
	}

	suppliers, err := h.Service.ListSuppliers(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, suppliers)
}

// UpdateSupplier updates supplier fields
func (h *SupplierHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid supplier ID")
		return
	}

	var req models.UpdateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	supplier, err := h.Service.UpdateSupplier(r.Context(), id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, supplier)
}

// SetStatus activates or deactivates a supplier
func (h *SupplierHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid supplier ID")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	supplier, err := h.Service.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, supplier)
}

// DeleteSupplier removes a supplier. Historical purchases keep their
// snapshotted supplier name.
func (h *SupplierHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(mux.Vars(r)["id"])
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid supplier ID")
		return
	}

	if err := h.Service.DeleteSupplier(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "supplier deleted"})
}
