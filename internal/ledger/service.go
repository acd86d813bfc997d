// Package ledger implements the stateful operations of the finance ledger:
// account and transaction bookkeeping, transfers and loans, budget upkeep,
// and materialization of recurring rules.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"
)

// Mirror event vocabulary shared with the sync worker.
const (
	EntityTransaction = "transaction"
	OpUpsert          = "upsert"
	OpDelete          = "delete"
)

// Service orchestrates ledger mutations against the store and publishes
// mirror events for the sync worker. Derived state (balances, budget
// progress, summaries) is recomputed from a full snapshot on every read.
type Service struct {
	store  Store
	events EventPublisher // may be nil: mirror disabled
}

func NewService(store Store, events EventPublisher) *Service {
	return &Service{store: store, events: events}
}

// --- accounts ---

// AccountParams carries external input for account creation. Type and
// balance arrive as strings and are parsed once here, at the boundary.
type AccountParams struct {
	Name        string
	Type        string
	Balance     string
	CreditLimit string // optional, credit cards only
}

func (s *Service) CreateAccount(ctx context.Context, p AccountParams) (core.Account, error) {
	typ, err := core.ParseAccountType(p.Type)
	if err != nil {
		return core.Account{}, err
	}
	cents, err := core.ParseSignedDecimalToCents(p.Balance)
	if err != nil {
		return core.Account{}, fmt.Errorf("balance: %w", err)
	}
	var limit *core.Money
	if p.CreditLimit != "" {
		lc, err := core.ParseDecimalToCents(p.CreditLimit)
		if err != nil {
			return core.Account{}, fmt.Errorf("credit limit: %w", err)
		}
		limit = &core.Money{Cents: lc}
	}

	account, err := core.NewAccount(uuid.NewString(), p.Name, typ, core.Money{Cents: cents}, limit)
	if err != nil {
		return core.Account{}, err
	}
	if err := s.store.AddAccount(ctx, account); err != nil {
		return core.Account{}, fmt.Errorf("add account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", account.ID,
		"name", account.Name,
		"type", string(account.Type))
	return account, nil
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	slog.InfoContext(ctx, "Account deleted", "account_id", id)
	return nil
}

// Balances derives the current balance of every account from the full
// snapshot. Re-run on every read; there is no incremental aggregation.
func (s *Service) Balances(ctx context.Context) ([]core.AccountBalance, error) {
	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	txns, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.DeriveBalances(accounts, txns), nil
}

// --- transactions ---

func (s *Service) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.AddTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	s.publish(ctx, EntityTransaction, t.ID, OpUpsert)
	return t, nil
}

func (s *Service) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	s.publish(ctx, EntityTransaction, t.ID, OpUpsert)
	return nil
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, EntityTransaction, id, OpDelete)
	return nil
}

// Transactions returns the full, unfiltered snapshot. Export and listings
// include engine-generated entries; analytics exclude them downstream.
func (s *Service) Transactions(ctx context.Context) ([]core.Transaction, error) {
	txns, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// --- budgets ---

// SetBudget upserts the one budget allowed per (category, yearMonth).
func (s *Service) SetBudget(ctx context.Context, category string, amount core.Money, yearMonth string) (core.Budget, error) {
	b := core.Budget{
		ID:        core.BudgetID(category, yearMonth),
		Category:  category,
		Amount:    amount,
		YearMonth: yearMonth,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := s.store.PutBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("put budget: %w", err)
	}
	return b, nil
}

func (s *Service) DeleteBudget(ctx context.Context, id string) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

// BudgetProgressForMonth recomputes budget progress for one month from the
// full transaction snapshot.
func (s *Service) BudgetProgressForMonth(ctx context.Context, yearMonth string) ([]core.BudgetProgress, error) {
	budgets, err := s.store.BudgetsForMonth(ctx, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	txns, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.CalculateBudgetProgress(budgets, txns, yearMonth), nil
}

// TopBudgetsForMonth returns at most three budgets, descending by spend.
func (s *Service) TopBudgetsForMonth(ctx context.Context, yearMonth string) ([]core.BudgetProgress, error) {
	progress, err := s.BudgetProgressForMonth(ctx, yearMonth)
	if err != nil {
		return nil, err
	}
	return core.TopBudgets(progress), nil
}

// --- recurring rules ---

func (s *Service) CreateRecurringRule(ctx context.Context, r core.RecurringRule) (core.RecurringRule, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := r.Validate(); err != nil {
		return core.RecurringRule{}, err
	}
	if err := s.store.PutRecurringRule(ctx, r); err != nil {
		return core.RecurringRule{}, fmt.Errorf("put recurring rule: %w", err)
	}
	return r, nil
}

func (s *Service) DeleteRecurringRule(ctx context.Context, id string) error {
	if err := s.store.DeleteRecurringRule(ctx, id); err != nil {
		return fmt.Errorf("delete recurring rule: %w", err)
	}
	return nil
}

func (s *Service) RecurringRules(ctx context.Context) ([]core.RecurringRule, error) {
	rules, err := s.store.RecurringRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring rules: %w", err)
	}
	return rules, nil
}

// --- categories ---

func (s *Service) Categories(ctx context.Context) ([]core.Category, error) {
	cats, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *Service) AddCategory(ctx context.Context, c core.Category) error {
	if err := s.store.PutCategory(ctx, c); err != nil {
		return fmt.Errorf("put category: %w", err)
	}
	return nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// SeedDefaultCategories installs the default taxonomy into an empty store.
// A store that already has categories is left untouched.
func (s *Service) SeedDefaultCategories(ctx context.Context) error {
	existing, err := s.store.Categories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range core.DefaultCategories() {
		if err := s.store.PutCategory(ctx, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
	}
	slog.InfoContext(ctx, "Seeded default categories", "count", len(core.DefaultCategories()))
	return nil
}

// --- summaries ---

func (s *Service) MonthlySummaries(ctx context.Context) ([]core.MonthlySummary, error) {
	txns, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.MonthlySummaries(txns), nil
}

func (s *Service) DailyTrends(ctx context.Context, now time.Time) ([]core.DailyTrend, error) {
	txns, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.DailyTrends(txns, now), nil
}

func (s *Service) SpendingAlert(ctx context.Context, now time.Time) (string, error) {
	txns, err := s.store.Transactions(ctx)
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}
	return core.SpendingAlert(txns, now), nil
}

// publish notifies the mirror pipeline. Failure never fails the operation:
// the local write already happened and the pending scan will catch up.
func (s *Service) publish(ctx context.Context, entity, id, op string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, entity, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", entity, "id", id, "op", op, "error", err)
	}
}
