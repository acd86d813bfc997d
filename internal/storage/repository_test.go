package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"spendwise/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAccountRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	limit := core.Money{Cents: 200000}
	accounts := []core.Account{
		{ID: "a1", Name: "Checking", Type: core.Bank, InitialBalance: core.Money{Cents: 100000}},
		{ID: "a2", Name: "Visa", Type: core.CreditCard, InitialBalance: core.Money{Cents: -5000}, CreditLimit: &limit},
	}
	for _, a := range accounts {
		if err := repo.AddAccount(ctx, a); err != nil {
			t.Fatalf("AddAccount(%s): %v", a.ID, err)
		}
	}

	got, err := repo.Accounts(ctx)
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d accounts, want 2", len(got))
	}
	if got[0].Name != "Checking" || got[0].InitialBalance.Cents != 100000 {
		t.Errorf("first account = %+v", got[0])
	}
	if got[1].CreditLimit == nil || got[1].CreditLimit.Cents != 200000 {
		t.Errorf("credit limit not round-tripped: %+v", got[1])
	}

	// Upsert on the same id replaces fields.
	accounts[0].Name = "Main Checking"
	if err := repo.AddAccount(ctx, accounts[0]); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ = repo.Accounts(ctx)
	if len(got) != 2 || got[0].Name != "Main Checking" {
		t.Errorf("after upsert: %+v", got)
	}

	if err := repo.DeleteAccount(ctx, "a1"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if err := repo.DeleteAccount(ctx, "a1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("double delete error = %v, want sql.ErrNoRows", err)
	}
}

func TestTransactionSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := core.Transaction{
		ID:        "t1",
		AccountID: "a1",
		Amount:    core.Money{Cents: 2500},
		Type:      core.Expense,
		Category:  "Food",
		Date:      time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local),
		Note:      "lunch",
	}
	if err := repo.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	// A fresh write is pending until the mirror confirms it.
	pending, err := repo.PendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("PendingSyncTransactions: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "t1" {
		t.Fatalf("pending = %+v, want t1", pending)
	}

	if err := repo.MarkSynced(ctx, "t1"); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	pending, _ = repo.PendingSyncTransactions(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("still pending after MarkSynced: %+v", pending)
	}

	// An update dirties the row again.
	tx.Note = "team lunch"
	if err := repo.UpdateTransaction(ctx, tx); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	pending, _ = repo.PendingSyncTransactions(ctx, 10)
	if len(pending) != 1 {
		t.Errorf("update did not reset sync status: %+v", pending)
	}

	if err := repo.MarkSyncError(ctx, "t1"); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}
	pending, _ = repo.PendingSyncTransactions(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("errored row still reported pending: %+v", pending)
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	tx := core.Transaction{
		ID:        "t1",
		AccountID: "a1",
		Amount:    core.Money{Cents: 123450},
		Type:      core.Income,
		Category:  "Salary",
		Date:      date,
	}
	if err := repo.AddTransaction(ctx, tx); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	got, err := repo.GetTransaction(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Amount.Cents != 123450 || got.Type != core.Income || got.Category != "Salary" {
		t.Errorf("got %+v", got)
	}
	if !got.Date.Equal(date) {
		t.Errorf("date = %v, want %v", got.Date, date)
	}

	if _, err := repo.GetTransaction(ctx, "missing"); err == nil {
		t.Error("missing transaction did not error")
	}

	if err := repo.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "t1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("double delete error = %v, want sql.ErrNoRows", err)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := core.Budget{ID: "food_2025-03", Category: "Food", Amount: core.Money{Cents: 50000}, YearMonth: "2025-03"}
	if err := repo.PutBudget(ctx, b); err != nil {
		t.Fatalf("PutBudget: %v", err)
	}

	// Upsert keeps one budget per id.
	b.Amount = core.Money{Cents: 60000}
	if err := repo.PutBudget(ctx, b); err != nil {
		t.Fatalf("PutBudget upsert: %v", err)
	}

	got, err := repo.BudgetsForMonth(ctx, "2025-03")
	if err != nil {
		t.Fatalf("BudgetsForMonth: %v", err)
	}
	if len(got) != 1 || got[0].Amount.Cents != 60000 {
		t.Errorf("budgets = %+v", got)
	}

	// Other months stay invisible.
	other, _ := repo.BudgetsForMonth(ctx, "2025-04")
	if len(other) != 0 {
		t.Errorf("wrong-month budgets leaked: %+v", other)
	}

	if err := repo.DeleteBudget(ctx, "food_2025-03"); err != nil {
		t.Fatalf("DeleteBudget: %v", err)
	}
}

func TestRecurringRuleDueQuery(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	due := core.RecurringRule{
		ID:        "r1",
		AccountID: "a1",
		Amount:    core.Money{Cents: 1000},
		Type:      core.Expense,
		Category:  "Rent",
		Frequency: core.Monthly,
		NextDue:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local),
	}
	future := due
	future.ID = "r2"
	future.NextDue = time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local)

	for _, rule := range []core.RecurringRule{due, future} {
		if err := repo.PutRecurringRule(ctx, rule); err != nil {
			t.Fatalf("PutRecurringRule(%s): %v", rule.ID, err)
		}
	}

	cutoff := time.Date(2025, 3, 15, 23, 59, 59, 0, time.Local)
	got, err := repo.DueRecurringRules(ctx, cutoff)
	if err != nil {
		t.Fatalf("DueRecurringRules: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("due = %+v, want only r1", got)
	}
	if got[0].Frequency != core.Monthly || !got[0].NextDue.Equal(due.NextDue) {
		t.Errorf("rule fields lost: %+v", got[0])
	}

	all, err := repo.RecurringRules(ctx)
	if err != nil {
		t.Fatalf("RecurringRules: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d rules, want 2", len(all))
	}

	if err := repo.DeleteRecurringRule(ctx, "r1"); err != nil {
		t.Fatalf("DeleteRecurringRule: %v", err)
	}
	if err := repo.DeleteRecurringRule(ctx, "r1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("double delete error = %v, want sql.ErrNoRows", err)
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, c := range core.DefaultCategories() {
		if err := repo.PutCategory(ctx, c); err != nil {
			t.Fatalf("PutCategory(%s): %v", c.Name, err)
		}
	}

	got, err := repo.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(got) != len(core.DefaultCategories()) {
		t.Fatalf("got %d categories, want %d", len(got), len(core.DefaultCategories()))
	}

	if err := repo.DeleteCategory(ctx, got[0].ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := repo.DeleteCategory(ctx, got[0].ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("double delete error = %v, want sql.ErrNoRows", err)
	}
}
