package ledger

import (
	"context"
	"time"

	"spendwise/internal/core"
)

// Ports for outbound adapters. The SQLite repository is the production
// implementation; the memory store backs tests and the memory backend.
type (
	AccountStore interface {
		Accounts(ctx context.Context) ([]core.Account, error)
		AddAccount(ctx context.Context, a core.Account) error
		DeleteAccount(ctx context.Context, id string) error
	}

	TransactionStore interface {
		Transactions(ctx context.Context) ([]core.Transaction, error)
		AddTransaction(ctx context.Context, t core.Transaction) error
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	BudgetStore interface {
		BudgetsForMonth(ctx context.Context, yearMonth string) ([]core.Budget, error)
		PutBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id string) error
	}

	RecurringStore interface {
		RecurringRules(ctx context.Context) ([]core.RecurringRule, error)
		// DueRecurringRules returns rules with NextDue at or before cutoff.
		DueRecurringRules(ctx context.Context, cutoff time.Time) ([]core.RecurringRule, error)
		// PutRecurringRule is an idempotent upsert keyed on the rule id.
		PutRecurringRule(ctx context.Context, r core.RecurringRule) error
		DeleteRecurringRule(ctx context.Context, id string) error
	}

	CategoryStore interface {
		Categories(ctx context.Context) ([]core.Category, error)
		PutCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, id string) error
	}

	// Store is the full persistence contract the service operates against.
	Store interface {
		AccountStore
		TransactionStore
		BudgetStore
		RecurringStore
		CategoryStore
	}

	// EventPublisher notifies the mirror sync pipeline of ledger changes.
	// Publish failures are logged and swallowed; the local write stands.
	EventPublisher interface {
		PublishLedgerEvent(ctx context.Context, entity, id, op string) error
	}
)
