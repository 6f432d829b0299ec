package http

import (
	"ricemill-backend/internal/handlers"
	"ricemill-backend/internal/middleware"

	"github.com/gorilla/mux"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	supplierHandler *handlers.SupplierHandler,
	purchaseHandler *handlers.PurchaseHandler,
	saleHandler *handlers.SaleHandler,
	invoiceHandler *handlers.InvoiceHandler,
	statsHandler *handlers.StatsHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Authenticated profile
	me := r.PathPrefix("/auth/me").Subrouter()
	me.Use(authMiddleware.Authenticate)
	me.HandleFunc("", authHandler.Me).Methods("GET")

	// Suppliers
	suppliersAPI := r.PathPrefix("/api/suppliers").Subrouter()
	suppliersAPI.Use(authMiddleware.Authenticate)
	suppliersAPI.HandleFunc("", supplierHandler.ListSuppliers).Methods("GET")
	suppliersAPI.HandleFunc("", supplierHandler.CreateSupplier).Methods("POST")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.GetSupplier).Methods("GET")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.UpdateSupplier).Methods("PUT")
	suppliersAPI.HandleFunc("/{id}/status", supplierHandler.SetStatus).Methods("PATCH")
	suppliersAPI.HandleFunc("/{id}", supplierHandler.DeleteSupplier).Methods("DELETE")

	// Purchases
	purchasesAPI := r.PathPrefix("/api/purchases").Subrouter()
	purchasesAPI.Use(authMiddleware.Authenticate)
	purchasesAPI.HandleFunc("", purchaseHandler.ListPurchases).Methods("GET")
	purchasesAPI.HandleFunc("", purchaseHandler.CreatePurchase).Methods("POST")
	purchasesAPI.HandleFunc("/{id}", purchaseHandler.GetPurchase).Methods("GET")
	purchasesAPI.HandleFunc("/{id}", purchaseHandler.UpdatePurchase).Methods("PUT")
	purchasesAPI.HandleFunc("/{id}", purchaseHandler.DeletePurchase).Methods("DELETE")

	// Sales
	salesAPI := r.PathPrefix("/api/sales").Subrouter()
	salesAPI.Use(authMiddleware.Authenticate)
	salesAPI.HandleFunc("", saleHandler.ListSales).Methods("GET")
	salesAPI.HandleFunc("", saleHandler.CreateSale).Methods("POST")
	salesAPI.HandleFunc("/{id}", saleHandler.GetSale).Methods("GET")
	salesAPI.HandleFunc("/{id}", saleHandler.UpdateSale).Methods("PUT")
	salesAPI.HandleFunc("/{id}", saleHandler.DeleteSale).Methods("DELETE")

	// Invoices and their line items
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.ListInvoices).Methods("GET")
	invoicesAPI.HandleFunc("", invoiceHandler.CreateInvoice).Methods("POST")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.GetInvoice).Methods("GET")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.UpdateInvoice).Methods("PUT")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.DeleteInvoice).Methods("DELETE")
	invoicesAPI.HandleFunc("/{id}/pay", invoiceHandler.MarkAsPaid).Methods("POST")
	invoicesAPI.HandleFunc("/{id}/pdf", invoiceHandler.DownloadPDF).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/items", invoiceHandler.AddItem).Methods("POST")
	invoicesAPI.HandleFunc("/{id}/items/{item_id}", invoiceHandler.UpdateItem).Methods("PUT")
	invoicesAPI.HandleFunc("/{id}/items/{item_id}", invoiceHandler.DeleteItem).Methods("DELETE")

	// Reports
	statsAPI := r.PathPrefix("/api/stats").Subrouter()
	statsAPI.Use(authMiddleware.Authenticate)
	statsAPI.HandleFunc("/dashboard", statsHandler.Dashboard).Methods("GET")
	statsAPI.HandleFunc("/monthly", statsHandler.MonthlyTrends).Methods("GET")
	statsAPI.HandleFunc("/top-suppliers", statsHandler.TopSuppliers).Methods("GET")
	statsAPI.HandleFunc("/top-customers", statsHandler.TopCustomers).Methods("GET")
	statsAPI.HandleFunc("/aging", statsHandler.AgingReport).Methods("GET")
	statsAPI.HandleFunc("/inventory", statsHandler.InventoryTurnover).Methods("GET")

	// User management is admin only
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.RequireAdmin)
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", userHandler.CreateUser).Methods("POST")
	usersAPI.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT")
	usersAPI.HandleFunc("/{id}/active", userHandler.SetActive).Methods("PATCH")
	usersAPI.HandleFunc("/{id}", userHandler.DeleteUser).Methods("DELETE")

	return r
}
