package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"farmledger/internal/amqp"
	"farmledger/internal/config"
	"farmledger/internal/export"
	exportgoogle "farmledger/internal/export/google"
	exportmem "farmledger/internal/export/memory"
	"farmledger/internal/log"
	"farmledger/internal/storage"
	"farmledger/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.Setup("farmledger-worker")
	logger.Info("Starting farmledger-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker reads pending records from the shared SQLite database; the
	// in-memory data backend has nothing for a separate process to see.
	if cfg.DataBackend != "sqlite" {
		logger.Error("Worker requires the sqlite data backend", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var ledger export.Appender
	switch cfg.LedgerBackend {
	case "google":
		client, err := exportgoogle.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets ledger", "error", err)
			os.Exit(1)
		}
		ledger = client
		logger.Info("Google Sheets ledger initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	case "memory":
		ledger = exportmem.New()
		logger.Info("In-memory ledger initialized")
	default:
		logger.Info("Ledger export disabled", "backend", cfg.LedgerBackend)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ledgerWorker *worker.LedgerWorker
	if ledger != nil {
		ledgerWorker = worker.NewLedgerWorker(repo, ledger, cfg.SyncBatchSize)

		// On startup, export any pending records that might have been missed
		logger.Info("Performing startup sync check...")
		if err := ledgerWorker.StartupSyncCheck(ctx); err != nil {
			logger.Error("Failed startup sync check", "error", err)
			// Don't exit - continue with normal operation
		}
	} else {
		logger.Info("Skipping ledger sync operations - no ledger backend available")
	}

	// Start message consumption only if we have a ledger to export to
	if ledgerWorker != nil {
		go func() {
			err := amqpClient.ConsumeWithReconnect(ctx, func(msg *amqp.RecordSyncMessage) error {
				return ledgerWorker.HandleSyncMessage(ctx, msg)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}()

		// Periodic sweep for records whose sync message was lost
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := ledgerWorker.ProcessPending(ctx); err != nil {
						logger.Error("Periodic sync failed", "error", err)
					}
				}
			}
		}()
	} else {
		logger.Info("Skipping AMQP message consumption - no ledger worker available")
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
