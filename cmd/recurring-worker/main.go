package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"spendwise/internal/amqp"
	"spendwise/internal/config"
	"spendwise/internal/ledger"
	"spendwise/internal/log"
	"spendwise/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.NewFromEnv(log.ComponentRecurring)
	log.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	// Materialized transactions flow through the same event pipeline as
	// manual ones, so the mirror worker picks them up too.
	var events ledger.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
		} else {
			defer amqpClient.Close()
			events = amqpClient
			logger.Info("AMQP client initialized - materialized transactions will sync via spendwise-worker")
		}
	} else {
		logger.Info("AMQP disabled - materialized transactions will not be mirrored")
	}

	svc := ledger.NewService(sqliteRepo, events)
	processor := ledger.NewRecurringProcessor(sqliteRepo, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catch up on anything that came due while the worker was down.
	logger.Info("Running initial recurring rule processing...")
	if count, err := processor.ProcessDueRules(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "transactions_created", count)
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.RecurringCron, func() {
		now := time.Now()
		logger.Info("Processing due recurring rules...")
		count, err := processor.ProcessDueRules(ctx, now)
		if err != nil {
			logger.Error("Scheduled processing failed", "error", err)
			return
		}
		logger.Info("Scheduled processing complete", "transactions_created", count)
	})
	if err != nil {
		logger.Error("Invalid recurring cron expression", "error", err, "cron", cfg.RecurringCron)
		os.Exit(1)
	}

	// Daily reminder: announce upcoming rules so the account owner can be
	// notified. Delivery is handled outside this binary.
	_, err = scheduler.AddFunc(cfg.ReminderCron, func() {
		count, err := processor.PublishDailyReminder(ctx, time.Now())
		if err != nil {
			logger.Error("Daily reminder failed", "error", err)
			return
		}
		logger.Info("Daily reminder run complete", "rules_due", count)
	})
	if err != nil {
		logger.Error("Invalid reminder cron expression", "error", err, "cron", cfg.ReminderCron)
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("Recurring rule processor scheduled",
		"cron", cfg.RecurringCron,
		"reminder_cron", cfg.ReminderCron,
		"sqlite_db", cfg.SQLiteDBPath)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down recurring-worker...")
	cancel()

	// Let an in-flight cron run finish before exiting.
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
		logger.Info("Recurring-worker shutdown complete")
	case <-time.After(30 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}
