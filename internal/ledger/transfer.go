package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"
)

// TransferResult reports the outcome of a transfer to the caller. Validation
// failures are values, not errors: OK false with a user-facing message.
// Errors are reserved for store failures.
type TransferResult struct {
	OK      bool
	Message string
}

func failure(msg string) TransferResult { return TransferResult{Message: msg} }

// Transfer moves amount from one account to another as a pair of ledger
// entries: an expense on the source and an income on the destination, both in
// the "Transfer" category. Paying a loan down to exactly zero deletes the
// loan account.
//
// Validation happens against freshly derived balances and is fail-fast:
// nothing is written until every check passes. The two writes themselves are
// sequential, independent requests; a crash between them leaves the second
// entry missing with no compensating rollback.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount core.Money, date time.Time, note string) (TransferResult, error) {
	if amount.Cents <= 0 {
		return failure("Amount must be greater than zero"), nil
	}
	if fromID == toID {
		return failure("Cannot transfer to the same account"), nil
	}

	balances, err := s.Balances(ctx)
	if err != nil {
		return TransferResult{}, err
	}
	from, ok := core.FindBalance(balances, fromID)
	if !ok {
		return failure("Account not found"), nil
	}
	to, ok := core.FindBalance(balances, toID)
	if !ok {
		return failure("Account not found"), nil
	}

	// Credit-card sources are exempt from the overdraft check: spending on
	// revolving credit is the point of the account.
	if from.Account.Type != core.CreditCard && from.CurrentBalance.Cents < amount.Cents {
		return failure(fmt.Sprintf("Insufficient funds in %s", from.Account.Name)), nil
	}
	if to.Account.Type == core.LoanTaken {
		due := to.AmountDue()
		if amount.Cents > due.Cents {
			return failure(fmt.Sprintf("Payment exceeds amount due (%s)", due)), nil
		}
	}

	transferNote := composeTransferNote(from.Account.Name, to.Account.Name, note)

	out := core.Transaction{
		ID:        uuid.NewString(),
		AccountID: from.Account.ID,
		Amount:    amount,
		Type:      core.Expense,
		Category:  core.CategoryTransfer,
		Date:      date,
		Note:      transferNote,
	}
	if err := s.store.AddTransaction(ctx, out); err != nil {
		return TransferResult{}, fmt.Errorf("add transfer expense: %w", err)
	}
	s.publish(ctx, EntityTransaction, out.ID, OpUpsert)

	in := core.Transaction{
		ID:        uuid.NewString(),
		AccountID: to.Account.ID,
		Amount:    amount,
		Type:      core.Income,
		Category:  core.CategoryTransfer,
		Date:      date,
		Note:      transferNote,
	}
	if err := s.store.AddTransaction(ctx, in); err != nil {
		// The expense leg is already written. Surface the failure so the
		// caller knows the ledger is unbalanced until the next sync.
		return TransferResult{}, fmt.Errorf("add transfer income: %w", err)
	}
	s.publish(ctx, EntityTransaction, in.ID, OpUpsert)

	slog.InfoContext(ctx, "Transfer recorded",
		"from", from.Account.ID,
		"to", to.Account.ID,
		"amount_cents", amount.Cents)

	// A loan paid off to exactly zero disappears from the books.
	if to.Account.Type == core.LoanTaken && to.CurrentBalance.Cents+amount.Cents == 0 {
		if err := s.store.DeleteAccount(ctx, to.Account.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to delete settled loan account",
				"account_id", to.Account.ID, "error", err)
		} else {
			slog.InfoContext(ctx, "Loan fully repaid, account closed",
				"account_id", to.Account.ID, "name", to.Account.Name)
			return TransferResult{OK: true, Message: fmt.Sprintf("Loan %s fully repaid and closed", to.Account.Name)}, nil
		}
	}

	return TransferResult{OK: true, Message: "Transfer successful"}, nil
}

// AddLoan records taking a loan: it creates the liability account and credits
// the borrowed funds to a target account as a "Loan Credit" income. A blank
// target causes a fresh cash account to be created and used.
//
// The loan's initial balance is negative (debt owed); NewAccount enforces the
// sign, so callers may pass the user's positive figure untouched.
func (s *Service) AddLoan(ctx context.Context, loan core.Account, creditToAccountID string) (core.Account, error) {
	if loan.Type != core.LoanTaken {
		return core.Account{}, fmt.Errorf("%w: loan account must have type %q", core.ErrUnknownAccountType, core.LoanTaken)
	}

	target := creditToAccountID
	if target == "" {
		cash, err := core.NewAccount(uuid.NewString(), "Cash", core.Cash, core.Money{}, nil)
		if err != nil {
			return core.Account{}, err
		}
		if err := s.store.AddAccount(ctx, cash); err != nil {
			return core.Account{}, fmt.Errorf("add cash account: %w", err)
		}
		slog.InfoContext(ctx, "Created cash account for loan credit", "account_id", cash.ID)
		target = cash.ID
	}

	if err := s.store.AddAccount(ctx, loan); err != nil {
		return core.Account{}, fmt.Errorf("add loan account: %w", err)
	}

	credit := core.Transaction{
		ID:        uuid.NewString(),
		AccountID: target,
		Amount:    loan.InitialBalance.Abs(),
		Type:      core.Income,
		Category:  core.CategoryLoanCredit,
		Date:      time.Now(),
		Note:      fmt.Sprintf("Loan received from %s", loan.Name),
	}
	if err := s.store.AddTransaction(ctx, credit); err != nil {
		return core.Account{}, fmt.Errorf("add loan credit: %w", err)
	}
	s.publish(ctx, EntityTransaction, credit.ID, OpUpsert)

	slog.InfoContext(ctx, "Loan recorded",
		"loan_account_id", loan.ID,
		"credited_to", target,
		"amount_cents", credit.Amount.Cents)
	return loan, nil
}

func composeTransferNote(fromName, toName, note string) string {
	base := fmt.Sprintf("Transfer from %s to %s", fromName, toName)
	if note == "" {
		return base
	}
	return base + " - " + note
}
