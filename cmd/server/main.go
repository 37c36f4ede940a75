package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paydrop/paydrop-backend/internal/adapter/httpapi"
	"github.com/paydrop/paydrop-backend/internal/adapter/ledger/memory"
	"github.com/paydrop/paydrop-backend/internal/adapter/ledger/postgres"
	"github.com/paydrop/paydrop-backend/internal/config"
	"github.com/paydrop/paydrop-backend/internal/domain"
	"github.com/paydrop/paydrop-backend/internal/usecase/disburse"
	"github.com/paydrop/paydrop-backend/internal/usecase/gate"
	"github.com/paydrop/paydrop-backend/internal/usecase/sweep"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// 2. Setup the ledger backend
	ledger, cleanup, err := buildLedger(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up ledger")
	}
	defer cleanup()

	// 3. Initialize Services (Use Cases)
	g := gate.New(cfg.OwnerAccountID)

	disburseService := disburse.NewService(g, ledger, cfg.EngineAccountID)
	disburseService.SingleAssetRecipientLimit = cfg.SingleAssetRecipientLimit
	disburseService.CombinedRecipientLimit = cfg.CombinedRecipientLimit

	sweepService := sweep.NewService(g, ledger, cfg.EngineAccountID)

	// 4. Start HTTP Server
	handler := httpapi.NewHandler(disburseService, sweepService, g, logger)
	router := httpapi.NewRouter(handler, cfg.AdminToken, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to serve HTTP server")
		}
	}()

	waitForShutdown(server, logger)
}

// buildLedger selects the configured ledger backend. The returned cleanup
// closes the underlying database connection, if any.
func buildLedger(cfg *config.Config, logger *logrus.Logger) (domain.AssetLedger, func(), error) {
	switch cfg.LedgerBackend {
	case config.BackendMemory:
		logger.Warn("Using in-memory ledger, balances do not survive restarts")
		return memory.New(), func() {}, nil

	case config.BackendPostgres:
		db, err := postgres.NewDB(cfg.ConnString())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewLedger(db), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, logger *logrus.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}

	logger.Info("HTTP server stopped")
}
