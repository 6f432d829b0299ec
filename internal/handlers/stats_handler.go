package handlers

import (
	"net/http"

	"ricemill-backend/internal/services"
	"ricemill-backend/internal/timeutil"
	"ricemill-backend/pkg/utils"
)

type StatsHandler struct {
	Service *services.StatsService
}

func NewStatsHandler(s *services.StatsService) *StatsHandler {
	return &StatsHandler{Service: s}
}

// Dashboard returns the headline totals for the dashboard page
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Dashboard(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

// MonthlyTrends returns per-month totals for a year, defaulting to the
// current year
func (h *StatsHandler) MonthlyTrends(w http.ResponseWriter, r *http.Request) {
	year := queryIntDefault(r, "year", timeutil.Now().Year())

	trends, err := h.Service.MonthlyTrends(r.Context(), year)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, trends)
}

// TopSuppliers returns the top suppliers by total spend
func (h *StatsHandler) TopSuppliers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.TopSuppliers(r.Context(), queryIntDefault(r, "n", 5))
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, rows)
}

// TopCustomers returns the top invoice customers by total billed
func (h *StatsHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.TopCustomers(r.Context(), queryIntDefault(r, "n", 5))
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, rows)
}

// AgingReport buckets unpaid invoices by days past due
func (h *StatsHandler) AgingReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.AgingReport(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, report)
}

// InventoryTurnover reports remaining stock per purchase, oldest first
func (h *StatsHandler) InventoryTurnover(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.InventoryTurnover(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, rows)
}
