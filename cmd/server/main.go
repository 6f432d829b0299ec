package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"ricemill-backend/internal/auth"
	"ricemill-backend/internal/cache"
	"ricemill-backend/internal/config"
	"ricemill-backend/internal/database"
	"ricemill-backend/internal/db"
	"ricemill-backend/internal/handlers"
	"ricemill-backend/internal/health"
	h "ricemill-backend/internal/http"
	"ricemill-backend/internal/middleware"
	"ricemill-backend/internal/monitoring"
	"ricemill-backend/internal/repositories"
	"ricemill-backend/internal/services"
	"ricemill-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; reports just skip caching when it is down
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (stats will hit the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run embedded migrations so a fresh database is usable immediately
	log.Println("Running database migrations...")
	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)

	// Monitoring (Prometheus metrics + system stats) runs on its own port
	go monitoring.NewMonitoringServer(pool, cfg.Monitoring.Port).Start()

	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	supplierRepo := repositories.NewSupplierRepository(pool)
	purchaseRepo := repositories.NewPurchaseRepository(pool)
	saleRepo := repositories.NewSaleRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	statsRepo := repositories.NewStatsRepository(pool)
	txRunner := repositories.NewTxRunner(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	supplierService := services.NewSupplierService(supplierRepo)
	purchaseService := services.NewPurchaseService(purchaseRepo, supplierRepo, txRunner)
	saleService := services.NewSaleService(saleRepo, purchaseRepo, txRunner)
	invoiceService := services.NewInvoiceService(invoiceRepo, txRunner)
	statsService := services.NewStatsService(statsRepo, cache.NewStore(),
		time.Duration(cfg.Cache.StatsTTLSeconds)*time.Second)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	saleHandler := handlers.NewSaleHandler(saleService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	statsHandler := handlers.NewStatsHandler(statsService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		userHandler,
		supplierHandler,
		purchaseHandler,
		saleHandler,
		invoiceHandler,
		statsHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
