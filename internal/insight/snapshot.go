// Package insight generates a short financial health summary for the account
// owner from a snapshot of their ledger.
package insight

import (
	"time"

	"spendwise/internal/core"
)

// AccountSnapshot is the per-account view sent to the model. Amounts are
// decimal units, matching what the owner sees in the app.
type AccountSnapshot struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Balance     float64  `json:"balance"`
	CreditLimit *float64 `json:"creditLimit,omitempty"`
}

type TransactionSnapshot struct {
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type Snapshot struct {
	Accounts           []AccountSnapshot     `json:"accounts"`
	RecentTransactions []TransactionSnapshot `json:"recentTransactions"`
}

// BuildSnapshot assembles the model input from derived balances and the last
// 30 days of activity. Transfer and loan bookkeeping entries are excluded so
// the model reasons about real spending.
func BuildSnapshot(balances []core.AccountBalance, txns []core.Transaction, now time.Time) Snapshot {
	snap := Snapshot{}

	for _, b := range balances {
		as := AccountSnapshot{
			Name:    b.Account.Name,
			Type:    string(b.Account.Type),
			Balance: b.CurrentBalance.Units(),
		}
		if b.Account.CreditLimit != nil {
			limit := b.Account.CreditLimit.Units()
			as.CreditLimit = &limit
		}
		snap.Accounts = append(snap.Accounts, as)
	}

	cutoff := now.AddDate(0, 0, -30)
	for _, t := range txns {
		if t.Date.Before(cutoff) || t.Date.After(now) {
			continue
		}
		if core.IsSystemCategory(t.Category) {
			continue
		}
		snap.RecentTransactions = append(snap.RecentTransactions, TransactionSnapshot{
			Date:     t.Date.Format("2006-01-02"),
			Type:     string(t.Type),
			Category: t.Category,
			Amount:   t.Amount.Units(),
		})
	}

	return snap
}
