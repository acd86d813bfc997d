// Package export writes ledger transactions as CSV for backups and
// spreadsheet imports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"spendwise/internal/core"
)

var header = []string{"ID", "Date", "Type", "Category", "Amount", "Note"}

// WriteTransactionsCSV streams all transactions to w, system categories
// included. Amounts are decimal units.
func WriteTransactionsCSV(w io.Writer, txns []core.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range txns {
		record := []string{
			t.ID,
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.Category,
			strconv.FormatFloat(t.Amount.Units(), 'f', 2, 64),
			t.Note,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
