package ledger

import (
	"context"
	"testing"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/storage/memory"
)

func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name    string
		current time.Time
		freq    core.Frequency
		want    time.Time
	}{
		{"daily", localDate(2025, 3, 15), core.Daily, localDate(2025, 3, 16)},
		{"weekly", localDate(2025, 3, 25), core.Weekly, localDate(2025, 4, 1)},
		{"monthly", localDate(2025, 3, 15), core.Monthly, localDate(2025, 4, 15)},
		{"monthly clamps to short month", localDate(2025, 1, 31), core.Monthly, localDate(2025, 2, 28)},
		{"monthly clamps to leap day", localDate(2024, 1, 31), core.Monthly, localDate(2024, 2, 29)},
		{"monthly from 30th", localDate(2025, 4, 30), core.Monthly, localDate(2025, 5, 30)},
		{"yearly", localDate(2025, 6, 10), core.Yearly, localDate(2026, 6, 10)},
		{"yearly from leap day", localDate(2024, 2, 29), core.Yearly, localDate(2025, 2, 28)},
		{"unknown frequency defaults monthly", localDate(2025, 3, 15), core.Frequency("Fortnightly"), localDate(2025, 4, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDueDate(tt.current, tt.freq)
			if !got.Equal(tt.want) {
				t.Errorf("NextDueDate(%v, %s) = %v, want %v",
					tt.current.Format("2006-01-02"), tt.freq, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestNextDueDate_NormalizesToMidnight(t *testing.T) {
	noon := time.Date(2025, 3, 15, 12, 30, 45, 0, time.Local)
	got := NextDueDate(noon, core.Daily)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("NextDueDate not at midnight: %v", got)
	}
}

func TestProcessDueRules(t *testing.T) {
	store := memory.New()
	svc := NewService(store, nil)
	processor := NewRecurringProcessor(store, svc)
	ctx := context.Background()

	now := localDate(2025, 3, 15)
	due := core.RecurringRule{
		ID:        "r1",
		AccountID: "a1",
		Amount:    core.Money{Cents: 120000},
		Type:      core.Expense,
		Category:  "Rent",
		Frequency: core.Monthly,
		NextDue:   localDate(2025, 3, 15),
	}
	future := core.RecurringRule{
		ID:        "r2",
		AccountID: "a1",
		Amount:    core.Money{Cents: 999},
		Type:      core.Expense,
		Category:  "Bills",
		Frequency: core.Monthly,
		NextDue:   localDate(2025, 4, 1),
	}
	for _, r := range []core.RecurringRule{due, future} {
		if err := store.PutRecurringRule(ctx, r); err != nil {
			t.Fatalf("PutRecurringRule: %v", err)
		}
	}

	fired, err := processor.ProcessDueRules(ctx, now)
	if err != nil {
		t.Fatalf("ProcessDueRules: %v", err)
	}
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	txns, err := store.Transactions(ctx)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txns))
	}
	tx := txns[0]
	if tx.Category != "Rent" || tx.Amount.Cents != 120000 || tx.Type != core.Expense {
		t.Errorf("materialized transaction = %+v", tx)
	}
	if tx.Note != "Recurring: Rent" {
		t.Errorf("note = %q, want the default recurring note", tx.Note)
	}
	if !tx.Date.Equal(due.NextDue) {
		t.Errorf("transaction date = %v, want the due date %v", tx.Date, due.NextDue)
	}

	// The fired rule advanced a month; the future rule is untouched.
	rules, err := store.RecurringRules(ctx)
	if err != nil {
		t.Fatalf("RecurringRules: %v", err)
	}
	for _, r := range rules {
		switch r.ID {
		case "r1":
			if want := localDate(2025, 4, 15); !r.NextDue.Equal(want) {
				t.Errorf("r1 NextDue = %v, want %v", r.NextDue, want)
			}
		case "r2":
			if !r.NextDue.Equal(future.NextDue) {
				t.Errorf("r2 NextDue moved to %v", r.NextDue)
			}
		}
	}

	// A second run the same day finds nothing due.
	fired, err = processor.ProcessDueRules(ctx, now)
	if err != nil {
		t.Fatalf("second ProcessDueRules: %v", err)
	}
	if fired != 0 {
		t.Errorf("second run fired %d rules, want 0", fired)
	}
}

func TestPublishDailyReminder(t *testing.T) {
	store := memory.New()
	pub := &recordingPublisher{}
	svc := NewService(store, pub)
	processor := NewRecurringProcessor(store, svc)
	ctx := context.Background()

	now := localDate(2025, 3, 15)

	// Nothing due yet: no reminder published.
	count, err := processor.PublishDailyReminder(ctx, now)
	if err != nil {
		t.Fatalf("PublishDailyReminder: %v", err)
	}
	if count != 0 || len(pub.events) != 0 {
		t.Fatalf("quiet day published %d events (count %d), want none", len(pub.events), count)
	}

	for _, r := range []core.RecurringRule{
		{ID: "r1", AccountID: "a1", Amount: core.Money{Cents: 120000}, Type: core.Expense, Category: "Rent", Frequency: core.Monthly, NextDue: localDate(2025, 3, 15)},
		{ID: "r2", AccountID: "a1", Amount: core.Money{Cents: 5000}, Type: core.Expense, Category: "Bills", Frequency: core.Monthly, NextDue: localDate(2025, 3, 14)},
		{ID: "r3", AccountID: "a1", Amount: core.Money{Cents: 999}, Type: core.Expense, Category: "Subscriptions", Frequency: core.Monthly, NextDue: localDate(2025, 4, 1)},
	} {
		if err := store.PutRecurringRule(ctx, r); err != nil {
			t.Fatalf("PutRecurringRule: %v", err)
		}
	}

	count, err = processor.PublishDailyReminder(ctx, now)
	if err != nil {
		t.Fatalf("PublishDailyReminder: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 rules due through end of day", count)
	}
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.entity != "reminder" || ev.op != "notify" || ev.id != "2025-03-15" {
		t.Errorf("event = %+v, want reminder/2025-03-15/notify", ev)
	}

	// The reminder only announces; rules and transactions are untouched.
	txns, err := store.Transactions(ctx)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("reminder materialized %d transactions", len(txns))
	}
	rules, err := store.RecurringRules(ctx)
	if err != nil {
		t.Fatalf("RecurringRules: %v", err)
	}
	for _, r := range rules {
		if r.ID == "r1" && !r.NextDue.Equal(localDate(2025, 3, 15)) {
			t.Errorf("r1 NextDue moved to %v", r.NextDue)
		}
	}
}

func TestProcessDueRules_CatchesUpOverdue(t *testing.T) {
	store := memory.New()
	svc := NewService(store, nil)
	processor := NewRecurringProcessor(store, svc)
	ctx := context.Background()

	// Due ten days ago; the worker was down.
	rule := core.RecurringRule{
		ID:        "r1",
		AccountID: "a1",
		Amount:    core.Money{Cents: 500},
		Type:      core.Income,
		Category:  "Salary",
		Frequency: core.Weekly,
		NextDue:   localDate(2025, 3, 5),
	}
	if err := store.PutRecurringRule(ctx, rule); err != nil {
		t.Fatalf("PutRecurringRule: %v", err)
	}

	fired, err := processor.ProcessDueRules(ctx, localDate(2025, 3, 15))
	if err != nil {
		t.Fatalf("ProcessDueRules: %v", err)
	}
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	txns, _ := store.Transactions(ctx)
	if len(txns) != 1 || !txns[0].Date.Equal(rule.NextDue) {
		t.Errorf("catch-up transaction dated %v, want the original due date", txns[0].Date)
	}
}

func TestProcessDueRules_Uninitialized(t *testing.T) {
	p := &RecurringProcessor{}
	if _, err := p.ProcessDueRules(context.Background(), time.Now()); err == nil {
		t.Error("uninitialized processor did not error")
	}
}
