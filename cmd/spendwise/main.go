package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendwise/internal/amqp"
	"spendwise/internal/config"
	"spendwise/internal/httpapi"
	"spendwise/internal/insight"
	"spendwise/internal/ledger"
	"spendwise/internal/log"
	"spendwise/internal/storage"
	"spendwise/internal/storage/memory"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.NewFromEnv(log.ComponentApp)
	log.SetDefault(logger)

	logger.Info("Starting spendwise")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose the persistence backend. SQLite is authoritative in production;
	// the memory backend exists for demos and local experiments.
	var store ledger.Store
	switch cfg.DataBackend {
	case "memory":
		store = memory.New()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqliteRepo.Close()
		store = sqliteRepo
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	}

	// AMQP is optional: without it writes stay local and the mirror worker
	// picks them up from the pending scan.
	var events ledger.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event publishing", "error", err)
		} else {
			defer amqpClient.Close()
			events = amqpClient
			logger.Info("AMQP client initialized - ledger events will sync via spendwise-worker")
		}
	} else {
		logger.Info("AMQP disabled - ledger changes will not be mirrored")
	}

	svc := ledger.NewService(store, events)

	if err := svc.SeedDefaultCategories(context.Background()); err != nil {
		logger.Error("Failed to seed default categories", "error", err)
		os.Exit(1)
	}

	// The insight advisor is optional and only wired when a Gemini key is set.
	var advisor httpapi.InsightGenerator
	if cfg.GeminiAPIKey != "" {
		a, err := insight.NewAdvisor(context.Background())
		if err != nil {
			logger.Warn("Failed to initialize insight advisor, continuing without insights", "error", err)
		} else {
			advisor = a
			logger.Info("Insight advisor initialized")
		}
	} else {
		logger.Info("Insights disabled - no GEMINI_API_KEY provided")
	}

	srv := httpapi.NewServer(":"+cfg.Port, svc, advisor)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting spendwise server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
