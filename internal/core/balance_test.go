package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestDeriveBalances(t *testing.T) {
	accounts := []Account{
		{ID: "bank", Name: "Checking", Type: Bank, InitialBalance: Money{Cents: 100000}},
		{ID: "idle", Name: "Savings Pot", Type: Cash, InitialBalance: Money{Cents: 5000}},
	}
	txns := []Transaction{
		{ID: "t1", AccountID: "bank", Amount: Money{Cents: 20000}, Type: Expense, Category: "Rent", Date: date(2025, 3, 1)},
	}

	balances := DeriveBalances(accounts, txns)
	if len(balances) != 2 {
		t.Fatalf("got %d balances, want 2", len(balances))
	}

	// 1000.00 initial minus a 200.00 expense.
	if got := balances[0].CurrentBalance.Cents; got != 80000 {
		t.Errorf("bank balance = %d, want 80000", got)
	}
	// The initial balance itself is never mutated.
	if accounts[0].InitialBalance.Cents != 100000 {
		t.Errorf("initial balance mutated to %d", accounts[0].InitialBalance.Cents)
	}
	// An account with no transactions keeps its initial balance.
	if got := balances[1].CurrentBalance.Cents; got != 5000 {
		t.Errorf("idle balance = %d, want 5000", got)
	}
}

func TestDeriveBalances_CreditCard(t *testing.T) {
	limit := Money{Cents: 200000}
	accounts := []Account{
		{ID: "cc", Name: "Visa", Type: CreditCard, InitialBalance: Money{}, CreditLimit: &limit},
	}
	txns := []Transaction{
		{ID: "t1", AccountID: "cc", Amount: Money{Cents: 50000}, Type: Expense, Category: "Shopping", Date: date(2025, 3, 2)},
	}

	balances := DeriveBalances(accounts, txns)
	cc := balances[0]
	if cc.CurrentBalance.Cents != -50000 {
		t.Errorf("balance = %d, want -50000", cc.CurrentBalance.Cents)
	}
	if cc.AvailableCredit == nil {
		t.Fatal("available credit missing")
	}
	// 2000.00 limit with 500.00 spent leaves 1500.00.
	if cc.AvailableCredit.Cents != 150000 {
		t.Errorf("available credit = %d, want 150000", cc.AvailableCredit.Cents)
	}
	if due := cc.AmountDue(); due.Cents != 50000 {
		t.Errorf("amount due = %d, want 50000", due.Cents)
	}
}

func TestNetWorth(t *testing.T) {
	balances := []AccountBalance{
		{CurrentBalance: Money{Cents: 100000}},
		{CurrentBalance: Money{Cents: -30000}},
		{CurrentBalance: Money{Cents: 500}},
	}
	if got := NetWorth(balances); got.Cents != 70500 {
		t.Errorf("NetWorth = %d, want 70500", got.Cents)
	}
	if got := NetWorth(nil); got.Cents != 0 {
		t.Errorf("NetWorth(nil) = %d, want 0", got.Cents)
	}
}

func TestFindBalance(t *testing.T) {
	balances := []AccountBalance{
		{Account: Account{ID: "a"}},
		{Account: Account{ID: "b"}},
	}
	if _, ok := FindBalance(balances, "b"); !ok {
		t.Error("existing account not found")
	}
	if _, ok := FindBalance(balances, "z"); ok {
		t.Error("missing account reported found")
	}
}

func TestAmountDue_Settled(t *testing.T) {
	b := AccountBalance{CurrentBalance: Money{Cents: 250}}
	if due := b.AmountDue(); due.Cents != 0 {
		t.Errorf("due on settled account = %d, want 0", due.Cents)
	}
}
