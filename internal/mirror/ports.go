// Package mirror defines the outbound ports for copying ledger transactions
// to an external spreadsheet. SQLite stays authoritative; the mirror is a
// read-only view for the account owner.
package mirror

import (
	"context"

	"spendwise/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionWriter writes a transaction keyed on its id: an existing
	// mirrored row is overwritten in place, a new id gets a fresh row. Edits
	// therefore never duplicate rows in the mirror.
	TransactionWriter interface {
		Upsert(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	TransactionDeleter interface {
		Delete(ctx context.Context, id string) error
	}
)

// TransactionMirror is the full surface the sync worker needs.
type TransactionMirror interface {
	TransactionWriter
	TransactionDeleter
}
