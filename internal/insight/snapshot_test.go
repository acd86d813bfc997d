package insight

import (
	"testing"
	"time"

	"spendwise/internal/core"
)

func money(cents int64) core.Money { return core.Money{Cents: cents} }

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	limit := money(200000)

	balances := []core.AccountBalance{
		{
			Account:        core.Account{ID: "a1", Name: "Checking", Type: core.Bank, InitialBalance: money(100000)},
			CurrentBalance: money(80000),
		},
		{
			Account:        core.Account{ID: "a2", Name: "Visa", Type: core.CreditCard, CreditLimit: &limit},
			CurrentBalance: money(-50000),
		},
	}

	txns := []core.Transaction{
		{ID: "t1", AccountID: "a1", Amount: money(2000), Type: core.Expense, Category: "Food", Date: now.AddDate(0, 0, -5)},
		{ID: "t2", AccountID: "a1", Amount: money(3000), Type: core.Expense, Category: core.CategoryTransfer, Date: now.AddDate(0, 0, -5)},
		{ID: "t3", AccountID: "a1", Amount: money(4000), Type: core.Income, Category: core.CategoryLoanCredit, Date: now.AddDate(0, 0, -5)},
		{ID: "t4", AccountID: "a1", Amount: money(5000), Type: core.Expense, Category: "Rent", Date: now.AddDate(0, 0, -45)},
	}

	snap := BuildSnapshot(balances, txns, now)

	if len(snap.Accounts) != 2 {
		t.Fatalf("Accounts = %d, want 2", len(snap.Accounts))
	}
	if snap.Accounts[0].Balance != 800.0 {
		t.Errorf("Checking balance = %v, want 800", snap.Accounts[0].Balance)
	}
	if snap.Accounts[0].CreditLimit != nil {
		t.Error("Checking should have no credit limit")
	}
	if snap.Accounts[1].CreditLimit == nil || *snap.Accounts[1].CreditLimit != 2000.0 {
		t.Errorf("Visa credit limit = %v, want 2000", snap.Accounts[1].CreditLimit)
	}

	// Only the Food expense survives: bookkeeping categories and anything
	// older than 30 days are excluded.
	if len(snap.RecentTransactions) != 1 {
		t.Fatalf("RecentTransactions = %d, want 1", len(snap.RecentTransactions))
	}
	if snap.RecentTransactions[0].Category != "Food" {
		t.Errorf("Category = %q, want Food", snap.RecentTransactions[0].Category)
	}
	if snap.RecentTransactions[0].Amount != 20.0 {
		t.Errorf("Amount = %v, want 20", snap.RecentTransactions[0].Amount)
	}
}

func TestBuildSnapshot_Empty(t *testing.T) {
	snap := BuildSnapshot(nil, nil, time.Now())
	if len(snap.Accounts) != 0 || len(snap.RecentTransactions) != 0 {
		t.Error("empty inputs should produce an empty snapshot")
	}
}
