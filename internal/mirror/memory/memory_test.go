package memory

import (
	"context"
	"testing"
	"time"

	"spendwise/internal/core"
)

func sample(id string) core.Transaction {
	return core.Transaction{
		ID:        id,
		AccountID: "a1",
		Amount:    core.Money{Cents: 1000},
		Type:      core.Expense,
		Category:  "Food",
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local),
	}
}

func TestUpsertAndDelete(t *testing.T) {
	m := New()
	ctx := context.Background()

	ref, err := m.Upsert(ctx, sample("t1"))
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}
	if _, err := m.Upsert(ctx, sample("t2")); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if len(m.Items()) != 2 {
		t.Fatalf("got %d items, want 2", len(m.Items()))
	}

	if err := m.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items := m.Items()
	if len(items) != 1 || items[0].ID != "t2" {
		t.Errorf("items after delete = %+v", items)
	}

	// Unknown ids are not an error; a delete can race the mirror.
	if err := m.Delete(ctx, "ghost"); err != nil {
		t.Errorf("Delete(ghost): %v", err)
	}
}

func TestUpsertOverwritesExistingRow(t *testing.T) {
	m := New()
	ctx := context.Background()

	if _, err := m.Upsert(ctx, sample("t1")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := m.Upsert(ctx, sample("t2")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	edited := sample("t1")
	edited.Amount = core.Money{Cents: 4200}
	edited.Category = "Transport"
	ref, err := m.Upsert(ctx, edited)
	if err != nil {
		t.Fatalf("Upsert of edited transaction: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want the original row mem:1", ref)
	}

	items := m.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items after edit, want 2", len(items))
	}
	if items[0].ID != "t1" || items[0].Amount.Cents != 4200 || items[0].Category != "Transport" {
		t.Errorf("row not overwritten in place: %+v", items[0])
	}
}

func TestUpsertRejectsInvalid(t *testing.T) {
	m := New()
	bad := sample("t1")
	bad.Amount = core.Money{}
	if _, err := m.Upsert(context.Background(), bad); err == nil {
		t.Error("invalid transaction accepted")
	}
	if len(m.Items()) != 0 {
		t.Error("invalid transaction stored")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	m := New()
	if _, err := m.Upsert(context.Background(), sample("t1")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	items := m.Items()
	items[0].ID = "mutated"
	if m.Items()[0].ID != "t1" {
		t.Error("Items exposed internal state")
	}
}
