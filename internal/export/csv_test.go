package export

import (
	"strings"
	"testing"
	"time"

	"spendwise/internal/core"
)

func TestWriteTransactionsCSV(t *testing.T) {
	txns := []core.Transaction{
		{
			ID:       "t1",
			Amount:   core.Money{Cents: 123450},
			Type:     core.Expense,
			Category: "Rent",
			Date:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			Note:     "March rent",
		},
		{
			ID:       "t2",
			Amount:   core.Money{Cents: 999},
			Type:     core.Income,
			Category: "Salary",
			Date:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	var sb strings.Builder
	if err := WriteTransactionsCSV(&sb, txns); err != nil {
		t.Fatalf("WriteTransactionsCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "ID,Date,Type,Category,Amount,Note" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "t1,2025-03-01,Expense,Rent,1234.50,March rent" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "t2,2025-03-05,Income,Salary,9.99," {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteTransactionsCSV_Empty(t *testing.T) {
	var sb strings.Builder
	if err := WriteTransactionsCSV(&sb, nil); err != nil {
		t.Fatalf("WriteTransactionsCSV() error = %v", err)
	}
	if strings.TrimSpace(sb.String()) != "ID,Date,Type,Category,Amount,Note" {
		t.Errorf("empty export should contain only the header, got %q", sb.String())
	}
}
