// Package worker copies ledger transactions from SQLite to the configured
// mirror, driven by AMQP messages with a periodic pending scan as backup.
package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/mirror"
	"spendwise/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	mirror    mirror.TransactionWriter
	deleter   mirror.TransactionDeleter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, writer mirror.TransactionWriter, deleter mirror.TransactionDeleter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		mirror:    writer,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleMessage routes a single ledger sync message. Only transactions are
// mirrored; other entities are acknowledged and dropped.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	if msg.Entity != "transaction" {
		slog.InfoContext(ctx, "Ignoring non-transaction entity", "entity", msg.Entity, "id", msg.ID)
		return nil
	}

	switch msg.Op {
	case "delete":
		return w.handleDelete(ctx, msg.ID)
	default:
		return w.handleUpsert(ctx, msg.ID)
	}
}

func (w *SyncWorker) handleUpsert(ctx context.Context, id string) error {
	txn, err := w.storage.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Deleted before the message arrived. Nothing to mirror.
			slog.WarnContext(ctx, "Transaction no longer exists, skipping sync", "id", id)
			return nil
		}
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.mirrorTransaction(ctx, txn); err != nil {
		return fmt.Errorf("mirror transaction: %w", err)
	}

	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, id string) error {
	if w.deleter == nil {
		slog.WarnContext(ctx, "No mirror deleter configured, skipping deletion", "id", id)
		return nil
	}

	if err := w.deleter.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete mirrored transaction: %w", err)
	}

	slog.InfoContext(ctx, "Deleted mirrored transaction", "id", id)
	return nil
}

// ProcessPendingTransactions mirrors transactions that have not been synced
// yet. This is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.PendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, txn := range pending {
		if err := w.mirrorTransaction(ctx, txn); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction", "id", txn.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains a larger pending batch once at worker startup to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.PendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, txn := range pending {
		if err := w.mirrorTransaction(ctx, txn); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction during startup",
				"id", txn.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) mirrorTransaction(ctx context.Context, txn core.Transaction) error {
	ref, err := w.mirror.Upsert(ctx, txn)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, txn.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", txn.ID, "error", markErr)
		}
		return fmt.Errorf("upsert to mirror: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, txn.ID); err != nil {
		// The mirror write succeeded; the pending scan will retry the mark.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", txn.ID, "error", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction",
		"id", txn.ID,
		"mirror_ref", ref,
		"category", txn.Category,
		"amount_cents", txn.Amount.Cents)

	return nil
}
