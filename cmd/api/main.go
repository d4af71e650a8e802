package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/application/service"
	"github.com/sangkips/stall-pos/internal/config"
	"github.com/sangkips/stall-pos/internal/domain/repository"
	"github.com/sangkips/stall-pos/internal/infrastructure/database"
	infraRepo "github.com/sangkips/stall-pos/internal/infrastructure/repository"
	"github.com/sangkips/stall-pos/internal/presentation/http/handler"
	"github.com/sangkips/stall-pos/internal/presentation/http/middleware"
	"github.com/sangkips/stall-pos/internal/presentation/http/routes"
	"github.com/sangkips/stall-pos/pkg/logger"
	"github.com/sangkips/stall-pos/pkg/metrics"
	"github.com/sangkips/stall-pos/pkg/printer"
	"github.com/sangkips/stall-pos/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLog, err := logger.New(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.App.Env,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()
	zap.ReplaceGlobals(zapLog)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New(cfg.Metrics.Prefix)

	catalog, err := config.LoadCatalog(cfg.POS.CatalogFile)
	if err != nil {
		zapLog.Fatal("Failed to load catalog", zap.String("file", cfg.POS.CatalogFile), zap.Error(err))
	}

	ids, err := utils.NewSaleIDGenerator(cfg.POS.NodeID)
	if err != nil {
		zapLog.Fatal("Failed to initialize sale id generator", zap.Int64("node_id", cfg.POS.NodeID), zap.Error(err))
	}

	store := newSnapshotStore(cfg, zapLog)

	loc := cfg.POS.Location()
	tax := service.NewTaxService(cfg.POS.TaxRate, cfg.POS.TaxLabel)

	register := service.NewRegister(service.RegisterDeps{
		Catalog:           service.NewCatalogService(catalog, utils.NewItemID),
		Ledger:            service.NewLedgerService(ids),
		Tax:               tax,
		Store:             store,
		Metrics:           m,
		Logger:            zapLog.Named("register"),
		Location:          loc,
		StockPolicy:       cfg.StockPolicy,
		Denominations:     cfg.POS.Denominations,
		LowStockThreshold: cfg.POS.LowStockThreshold,
		TaxEnabled:        cfg.POS.TaxEnabled,
	})
	register.Load(context.Background())

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
		Timeout: cfg.Printer.Timeout,
	})
	if err != nil {
		zapLog.Warn("Failed to initialize printer, receipts will not print", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(
		thermalPrinter,
		cfg.Printer.Type,
		cfg.Printer.Width,
		cfg.POS.StoreName,
		tax,
		loc,
		zapLog.Named("printer"),
	)

	exportService := service.NewExportService(register, service.WorkbookWriter{})
	confirm := handler.NewConfirmPolicy(cfg.POS.ManagerPinHash)

	handlers := &routes.Handlers{
		Register: handler.NewRegisterHandler(register),
		Catalog:  handler.NewCatalogHandler(register, confirm),
		Cart:     handler.NewCartHandler(register),
		Payment:  handler.NewPaymentHandler(register),
		Sales:    handler.NewSalesHandler(register, confirm),
		Report:   handler.NewReportHandler(register, exportService),
		Printer:  handler.NewPrinterHandler(printerService, register),
	}

	var limiter *middleware.ClientRateLimiter
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Duration > 0 {
		limiter = middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration),
			BurstSize:         cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		defer limiter.Stop()
	}

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:         cfg,
		Logger:      zapLog.Named("http"),
		Metrics:     m,
		RateLimiter: limiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("Starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("environment", cfg.App.Env),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zapLog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("Server forced to shutdown", zap.Error(err))
	}
}

// newSnapshotStore picks the snapshot store. Postgres failures fall back to
// memory so the till keeps selling.
func newSnapshotStore(cfg *config.Config, log *zap.Logger) repository.SnapshotRepository {
	if cfg.Storage.Driver != "postgres" {
		return infraRepo.NewMemorySnapshotRepository()
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Error("Failed to connect to database, using in-memory storage", zap.Error(err))
		return infraRepo.NewMemorySnapshotRepository()
	}
	if err := database.AutoMigrate(db, log); err != nil {
		log.Error("Failed to run migrations, using in-memory storage", zap.Error(err))
		return infraRepo.NewMemorySnapshotRepository()
	}
	return infraRepo.NewSnapshotRepository(db)
}
