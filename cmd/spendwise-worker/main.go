package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spendwise/internal/amqp"
	"spendwise/internal/config"
	"spendwise/internal/log"
	gmirror "spendwise/internal/mirror/google"
	"spendwise/internal/storage"
	"spendwise/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.NewFromEnv(log.ComponentWorker)
	log.SetDefault(logger)

	logger.Info("Starting spendwise-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker reads pending transactions from the same database the
	// server writes to.
	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	// Initialize Google Sheets mirror (optional)
	var sheetsClient *gmirror.Client
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err = gmirror.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets mirror", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var syncWorker *worker.SyncWorker
	if sheetsClient != nil {
		syncWorker = worker.NewSyncWorker(sqliteRepo, sheetsClient, sheetsClient, cfg.SyncBatchSize)

		// On startup, mirror anything that accumulated while the worker
		// was down.
		logger.Info("Performing startup sync check...")
		if err := syncWorker.StartupSyncCheck(ctx); err != nil {
			logger.Error("Failed startup sync check", "error", err)
			// Don't exit - the periodic scan will retry
		}
	} else {
		logger.Info("Skipping mirror sync operations - no Google Sheets client available")
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if syncWorker != nil {
		// Consume ledger events from AMQP.
		group.Go(func() error {
			err := amqpClient.ConsumeLedgerSync(groupCtx, func(msg *amqp.LedgerSyncMessage) error {
				return syncWorker.HandleMessage(groupCtx, msg)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
				return err
			}
			return nil
		})

		// Periodically scan for pending transactions the message path missed.
		group.Go(func() error {
			ticker := time.NewTicker(cfg.SyncInterval)
			defer ticker.Stop()

			for {
				select {
				case <-groupCtx.Done():
					return nil
				case <-ticker.C:
					if err := syncWorker.ProcessPendingTransactions(groupCtx); err != nil {
						logger.Error("Periodic sync failed", "error", err)
					}
				}
			}
		})
	} else {
		logger.Info("Skipping AMQP message consumption - no sync worker available")
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-groupCtx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Worker exited with error", "error", err)
		}
		logger.Info("Worker shutdown complete")
	case <-time.After(30 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}
