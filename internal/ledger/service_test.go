package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/storage/memory"
)

// recordingPublisher captures published ledger events for assertions.
type recordingPublisher struct {
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	entity, id, op string
}

func (p *recordingPublisher) PublishLedgerEvent(_ context.Context, entity, id, op string) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{entity, id, op})
	return nil
}

func TestCreateAccount(t *testing.T) {
	svc := NewService(memory.New(), nil)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, AccountParams{
		Name:    "Checking",
		Type:    "Bank",
		Balance: "1500.00",
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if account.ID == "" {
		t.Error("no id assigned")
	}
	if account.InitialBalance.Cents != 150000 {
		t.Errorf("balance = %d, want 150000", account.InitialBalance.Cents)
	}

	if _, err := svc.CreateAccount(ctx, AccountParams{Name: "X", Type: "Piggy Bank", Balance: "0"}); err == nil {
		t.Error("unknown account type accepted")
	}
	if _, err := svc.CreateAccount(ctx, AccountParams{Name: "X", Type: "Bank", Balance: "soon"}); err == nil {
		t.Error("malformed balance accepted")
	}
}

func TestCreateAccount_CreditCard(t *testing.T) {
	svc := NewService(memory.New(), nil)

	cc, err := svc.CreateAccount(context.Background(), AccountParams{
		Name:        "Visa",
		Type:        "Credit Card",
		Balance:     "0",
		CreditLimit: "2000.00",
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if cc.CreditLimit == nil || cc.CreditLimit.Cents != 200000 {
		t.Errorf("credit limit = %v, want 200000", cc.CreditLimit)
	}
}

func TestCreateTransaction_PublishesEvent(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{}
	svc := NewService(store, pub)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, AccountParams{Name: "Checking", Type: "Bank", Balance: "100"})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	created, err := svc.CreateTransaction(ctx, core.Transaction{
		AccountID: account.ID,
		Amount:    core.Money{Cents: 2500},
		Type:      core.Expense,
		Category:  "Food",
		Date:      time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.ID == "" {
		t.Error("no id assigned")
	}

	if len(pub.events) != 1 {
		t.Fatalf("got %d events, want 1", len(pub.events))
	}
	e := pub.events[0]
	if e.entity != EntityTransaction || e.id != created.ID || e.op != OpUpsert {
		t.Errorf("event = %+v", e)
	}

	if err := svc.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if len(pub.events) != 2 || pub.events[1].op != OpDelete {
		t.Errorf("delete event = %+v", pub.events)
	}
}

func TestCreateTransaction_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(store, pub)
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, core.Transaction{
		AccountID: "a1",
		Amount:    core.Money{Cents: 100},
		Type:      core.Income,
		Category:  "Salary",
		Date:      time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	txns, err := store.Transactions(ctx)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(txns) != 1 || txns[0].ID != created.ID {
		t.Errorf("transaction not persisted: %+v", txns)
	}
}

func TestSetBudget(t *testing.T) {
	svc := NewService(memory.New(), nil)
	ctx := context.Background()

	b, err := svc.SetBudget(ctx, "Food", core.Money{Cents: 50000}, "2025-03")
	if err != nil {
		t.Fatalf("SetBudget: %v", err)
	}
	if b.ID != "food_2025-03" {
		t.Errorf("budget id = %q, want food_2025-03", b.ID)
	}

	// Setting the same (category, month) again replaces the amount.
	if _, err := svc.SetBudget(ctx, "Food", core.Money{Cents: 60000}, "2025-03"); err != nil {
		t.Fatalf("SetBudget update: %v", err)
	}
	progress, err := svc.BudgetProgressForMonth(ctx, "2025-03")
	if err != nil {
		t.Fatalf("BudgetProgressForMonth: %v", err)
	}
	if len(progress) != 1 || progress[0].Budget.Amount.Cents != 60000 {
		t.Errorf("progress = %+v, want one budget of 60000", progress)
	}

	if _, err := svc.SetBudget(ctx, "Food", core.Money{Cents: 100}, "March 2025"); err == nil {
		t.Error("malformed year-month accepted")
	}
	if _, err := svc.SetBudget(ctx, "Food", core.Money{}, "2025-03"); err == nil {
		t.Error("zero amount accepted")
	}
}

func TestSeedDefaultCategories(t *testing.T) {
	store := memory.New()
	svc := NewService(store, nil)
	ctx := context.Background()

	if err := svc.SeedDefaultCategories(ctx); err != nil {
		t.Fatalf("SeedDefaultCategories: %v", err)
	}
	cats, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != len(core.DefaultCategories()) {
		t.Fatalf("got %d categories, want %d", len(cats), len(core.DefaultCategories()))
	}

	// A second seed run must not duplicate, and must not clobber user edits.
	if err := svc.AddCategory(ctx, core.Category{ID: "custom", Name: "Pets", Type: core.Expense}); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := svc.SeedDefaultCategories(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	cats, _ = svc.Categories(ctx)
	if len(cats) != len(core.DefaultCategories())+1 {
		t.Errorf("got %d categories after reseed, want %d", len(cats), len(core.DefaultCategories())+1)
	}
}

func TestBalances_AfterActivity(t *testing.T) {
	svc := NewService(memory.New(), nil)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, AccountParams{Name: "Checking", Type: "Bank", Balance: "1000.00"})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, core.Transaction{
		AccountID: account.ID,
		Amount:    core.Money{Cents: 20000},
		Type:      core.Expense,
		Category:  "Rent",
		Date:      time.Now(),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	balances, err := svc.Balances(ctx)
	if err != nil {
		t.Fatalf("Balances: %v", err)
	}
	if len(balances) != 1 || balances[0].CurrentBalance.Cents != 80000 {
		t.Errorf("balances = %+v, want one at 80000", balances)
	}
}
