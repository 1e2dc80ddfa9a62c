// Package daemon wires the ElectroGest services together and manages their
// lifecycle: open the database, initialize schema and seed data, start the
// backup scheduler and the HTTP API, then block until a shutdown signal and
// tear everything down in reverse order.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juniorxam/Gestaodevendas/cmd/electrogestd/config"
	"github.com/juniorxam/Gestaodevendas/internal/api"
	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/logging"
	"github.com/juniorxam/Gestaodevendas/internal/service"
	"github.com/juniorxam/Gestaodevendas/internal/store"
	"github.com/juniorxam/Gestaodevendas/internal/version"
)

const shutdownTimeout = 10 * time.Second

// Run starts the daemon and blocks until SIGINT/SIGTERM.
func Run() error {
	cfg := config.Global

	logging.Info("Starting ElectroGest daemon v%s", version.DaemonVersion)
	logging.Info("Database: %s", cfg.DatabasePath)

	// Capture dependency logs written through the stdlib global logger
	// (net/http, database drivers) into the leveled pipeline.
	if cfg.LogLevel == "ERROR" {
		logging.RedirectStandardLog(nil)
	} else {
		logging.RedirectStandardLog(logging.NewLevelWriter("DEBUG", "stdlib"))
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error("Error closing database: %v", err)
		}
	}()

	ctx := context.Background()
	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	adminHash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := db.EnsureSeedData(ctx, adminHash); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	// Services share the store, the audit writer, and the report cache.
	audit := auth.NewAuditLog(db)
	categories := service.NewCategoryService(db, audit)
	reportCache := store.NewQueryCache(store.DefaultCacheTTL)
	sales := service.NewSaleService(db, audit, reportCache)
	stock := service.NewStockService(db, audit, reportCache)
	backups := store.NewBackupManager(db, cfg.BackupDir, cfg.BackupKeep)

	server, err := api.NewServer(&api.Config{
		BindAddr:   cfg.APIHost,
		BindPort:   cfg.APIPort,
		Store:      db,
		Auth:       auth.NewService(db),
		Audit:      audit,
		Customers:  service.NewCustomerService(db, audit),
		Categories: categories,
		Products:   service.NewProductService(db, audit, categories),
		Sales:      sales,
		Stock:      stock,
		Promotions: service.NewPromotionService(db, audit),
		Reports:    service.NewReportService(db, sales, stock, reportCache),
		Backups:    backups,
	})
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	var scheduler *store.BackupScheduler
	if !cfg.NoAutoBackup {
		scheduler = store.NewBackupScheduler(backups, cfg.BackupInterval)
		scheduler.Start()
		logging.Info("Backup scheduler running every %s (keep %d, dir %s)",
			cfg.BackupInterval, cfg.BackupKeep, cfg.BackupDir)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logging.Success("ElectroGest daemon started successfully")
	logging.Info("Dashboard API listening on http://%s:%d/api/v1", cfg.APIHost, cfg.APIPort)
	logging.Info("Daemon running... Press Ctrl+C to shutdown")

	sig := <-sigCh
	logging.Info("Received signal: %v", sig)
	logging.Info("Initiating graceful shutdown...")

	if scheduler != nil {
		scheduler.Shutdown()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("Error shutting down API server: %v", err)
	}

	logging.Success("ElectroGest daemon shutdown completed")
	return nil
}
