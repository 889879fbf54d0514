/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the eSocial payroll engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Initialize the JSON logger
  3. Load the tax table (file or embedded) and build the engine
  4. Initialize SQLite store
  5. Create API handler, router and deadline scheduler
  6. Start server with graceful shutdown

A missing or invalid tax table is fatal: there is no sensible fallback.

COMMAND-LINE FLAGS:
  -port               HTTP server port (default: 8080)
  -db                 SQLite database path (default: esocial.db)
                      Use ":memory:" for in-memory database
  -tables             Tax table YAML (default: embedded 2025 table)
  -log-level          debug, info, warn, error
  -reminder-interval  Deadline reminder interval, 0 disables

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the deadline scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/esocial.db"

  # Run next year's table
  ./server -tables=./tables/2026.yaml

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - factory/table.go: Tax table format
*/
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/esocial-engine/api"
	"github.com/warp/esocial-engine/config"
	"github.com/warp/esocial-engine/factory"
	"github.com/warp/esocial-engine/payroll"
	"github.com/warp/esocial-engine/store/sqlite"
	"github.com/warp/esocial-engine/tax"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	logger := config.InitLogger(cfg.LogLevel)

	table, err := loadTable(cfg.TaxTablesPath)
	if err != nil {
		return err
	}
	engine, err := payroll.NewEngine(table)
	if err != nil {
		return err
	}
	logger.Info("tax table loaded",
		"year", table.Year,
		"inss_ceiling", table.INSSCeiling().StringFixed(2),
		"irrf_exemption", table.IRRFExemptionLimit().StringFixed(2),
		"source", tableSource(cfg.TaxTablesPath),
	)

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	handler, err := api.NewHandler(store, engine, logger)
	if err != nil {
		return err
	}
	router := api.NewRouter(handler, cfg.CORSOrigins)

	scheduler := api.NewDeadlineScheduler(handler)
	scheduler.CheckInterval = cfg.ReminderInterval
	scheduler.LeadDays = cfg.ReminderLeadDays
	scheduler.Enabled = cfg.ReminderInterval > 0
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr(), "db", cfg.DatabasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

func loadTable(path string) (tax.Table, error) {
	if path == "" {
		return factory.DefaultTable()
	}
	return factory.LoadTable(path)
}

func tableSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
