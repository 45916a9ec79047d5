package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/handler"
	"inventory/internal/logger"
	"inventory/internal/metrics"
	"inventory/internal/repository"
	"inventory/internal/service"
	"inventory/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title           Inventory API
// @version         1.0
// @description     Products, suppliers, purchases, sales and the stock ledger of a small-business inventory.
// @host            localhost:3001
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(cfg)
	if err != nil {
		zlog.Fatal("database connection failed", zap.String("db_type", cfg.DBType), zap.Error(err))
	}
	zlog.Info("database ready", zap.String("db_type", cfg.DBType))

	if cfg.SeedData {
		if err := database.Seed(ctx, db); err != nil {
			zlog.Fatal("seeding sample data failed", zap.Error(err))
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zlog.Named("websocket"))
	go wsHub.Run(ctx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	if cfg.AllowOversell {
		zlog.Info("oversell allowed: sales may drive stock below zero")
	}

	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		WSSecret:       []byte(cfg.WSJWTSecret),
		Products:       service.NewProductService(productRepo, movementRepo),
		Suppliers:      service.NewSupplierService(supplierRepo),
		Orders: service.NewOrderService(
			txManager,
			productRepo,
			purchaseRepo,
			saleRepo,
			movementRepo,
			wsHub,
			appMetrics,
			cfg.AllowOversell,
		),
		Reports: service.NewReportService(dashboardRepo),
		Hub:     wsHub,
		Metrics: appMetrics,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
