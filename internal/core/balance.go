package core

// AccountBalance pairs an account with its derived balance. AvailableCredit
// is present only for credit cards that carry a limit.
type AccountBalance struct {
	Account         Account
	CurrentBalance  Money
	AvailableCredit *Money
}

// DeriveBalances computes a balance for every account from the full
// transaction set, preserving the input account order.
//
// currentBalance = initialBalance + sum(income) - sum(expense), over the
// transactions tagged with the account id. An account with no transactions
// keeps its initial balance; transactions never mutate initialBalance itself.
// For credit cards with a limit L, availableCredit = L + currentBalance
// (the balance is at or below zero while in debt).
func DeriveBalances(accounts []Account, txns []Transaction) []AccountBalance {
	deltas := make(map[string]int64, len(accounts))
	for _, t := range txns {
		deltas[t.AccountID] += t.Signed().Cents
	}

	out := make([]AccountBalance, len(accounts))
	for i, a := range accounts {
		balance := Money{Cents: a.InitialBalance.Cents + deltas[a.ID]}
		ab := AccountBalance{Account: a, CurrentBalance: balance}
		if a.Type == CreditCard && a.CreditLimit != nil {
			avail := a.CreditLimit.Add(balance)
			ab.AvailableCredit = &avail
		}
		out[i] = ab
	}
	return out
}

// NetWorth sums current balances across all accounts. Liabilities carry
// negative balances, so they subtract without special-casing.
func NetWorth(balances []AccountBalance) Money {
	var total Money
	for _, b := range balances {
		total = total.Add(b.CurrentBalance)
	}
	return total
}

// FindBalance returns the balance entry for an account id, if present.
func FindBalance(balances []AccountBalance, accountID string) (AccountBalance, bool) {
	for _, b := range balances {
		if b.Account.ID == accountID {
			return b, true
		}
	}
	return AccountBalance{}, false
}

// AmountDue is the outstanding debt on a liability balance: the negated
// current balance, floored at zero once the debt is cleared.
func (b AccountBalance) AmountDue() Money {
	if b.CurrentBalance.Cents >= 0 {
		return Money{}
	}
	return b.CurrentBalance.Neg()
}
