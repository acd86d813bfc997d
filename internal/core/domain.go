package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Bank       AccountType = "Bank"
	Cash       AccountType = "Cash"
	CreditCard AccountType = "Credit Card"
	LoanTaken  AccountType = "Loan Taken"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

const (
	Daily   Frequency = "Daily"
	Weekly  Frequency = "Weekly"
	Monthly Frequency = "Monthly"
	Yearly  Frequency = "Yearly"
)

// System categories mark ledger entries generated by the transfer/loan engine.
// They are excluded from analytics aggregates and the insight snapshot.
const (
	CategoryTransfer   = "Transfer"
	CategoryLoanCredit = "Loan Credit"
)

type (
	AccountType     string
	TransactionType string
	Frequency       string

	// Account is a money container. Liability accounts (credit card, loan)
	// carry their debt as a balance at or below zero.
	Account struct {
		ID             string
		Name           string
		Type           AccountType
		InitialBalance Money
		CreditLimit    *Money // set only for credit cards
	}

	// Transaction is a single income or expense entry against an account.
	// Amount is always positive; Type carries the direction.
	Transaction struct {
		ID        string
		AccountID string
		Amount    Money
		Type      TransactionType
		Category  string
		Date      time.Time
		Note      string
	}

	// Budget caps spending for one category in one calendar month.
	Budget struct {
		ID        string
		Category  string
		Amount    Money
		YearMonth string // "YYYY-MM"
	}

	// RecurringRule is a template that fires a concrete transaction each
	// time NextDue comes round. NextDue is advanced in place after firing.
	RecurringRule struct {
		ID        string
		AccountID string
		Amount    Money
		Type      TransactionType
		Category  string
		Note      string
		Frequency Frequency
		NextDue   time.Time
	}

	Category struct {
		ID   string
		Name string
		Type TransactionType
	}
)

var (
	ErrEmptyName          = errors.New("empty account name")
	ErrUnknownAccountType = errors.New("unknown account type")
	ErrUnknownTxType      = errors.New("unknown transaction type")
	ErrUnknownFrequency   = errors.New("unknown frequency")
	ErrEmptyAccountID     = errors.New("empty account id")
	ErrEmptyCategory      = errors.New("empty category")
	ErrInvalidYearMonth   = errors.New("invalid year-month")
	ErrZeroDate           = errors.New("date cannot be zero")
)

// ParseAccountType converts an external type string into the closed enum.
func ParseAccountType(s string) (AccountType, error) {
	switch strings.TrimSpace(s) {
	case string(Bank):
		return Bank, nil
	case string(Cash):
		return Cash, nil
	case string(CreditCard):
		return CreditCard, nil
	case string(LoanTaken):
		return LoanTaken, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAccountType, s)
	}
}

// IsLiability reports whether debt on this account type is represented as a
// balance at or below zero.
func (t AccountType) IsLiability() bool {
	return t == CreditCard || t == LoanTaken
}

// ParseTransactionType converts an external type string into the closed enum.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.TrimSpace(s) {
	case string(Income):
		return Income, nil
	case string(Expense):
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTxType, s)
	}
}

// ParseFrequency converts an external frequency string, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
	}
}

// IsSystemCategory reports whether cat marks an engine-generated entry.
func IsSystemCategory(cat string) bool {
	return cat == CategoryTransfer || cat == CategoryLoanCredit
}

// NewAccount builds a validated account. The liability sign convention is
// enforced here rather than left to callers: a positive initial balance on a
// credit card or loan is negated, so debt is always stored at or below zero.
func NewAccount(id, name string, typ AccountType, initialBalance Money, creditLimit *Money) (Account, error) {
	if strings.TrimSpace(name) == "" {
		return Account{}, ErrEmptyName
	}
	switch typ {
	case Bank, Cash, CreditCard, LoanTaken:
	default:
		return Account{}, fmt.Errorf("%w: %q", ErrUnknownAccountType, typ)
	}
	if creditLimit != nil && typ != CreditCard {
		return Account{}, fmt.Errorf("credit limit not allowed on %s account", typ)
	}
	if typ.IsLiability() && initialBalance.Cents > 0 {
		initialBalance = initialBalance.Neg()
	}
	return Account{
		ID:             id,
		Name:           strings.TrimSpace(name),
		Type:           typ,
		InitialBalance: initialBalance,
		CreditLimit:    creditLimit,
	}, nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccountID
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	switch t.Type {
	case Income, Expense:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTxType, t.Type)
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Signed returns the amount with the direction applied: positive for income,
// negative for expense.
func (t Transaction) Signed() Money {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// BudgetID derives the conventional budget id from category and yearMonth,
// so one budget exists per (category, month) pair.
func BudgetID(category, yearMonth string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "_")
	return slug + "_" + yearMonth
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParseYearMonth(b.YearMonth); err != nil {
		return err
	}
	return nil
}

func (r RecurringRule) Validate() error {
	if strings.TrimSpace(r.AccountID) == "" {
		return ErrEmptyAccountID
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	switch r.Type {
	case Income, Expense:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTxType, r.Type)
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.NextDue.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// MonthKey formats a timestamp as the "YYYY-MM" key used to scope budgets.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ParseYearMonth parses a "YYYY-MM" key into the first instant of that month.
func ParseYearMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return t, nil
}

// EndOfDay returns 23:59:59 of t's day in t's location. Recurring rules due
// at or before this cutoff fire during that day's processing runs.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// Midnight truncates t to 00:00:00.000 of its day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DefaultCategories returns the seed taxonomy installed into a fresh store.
func DefaultCategories() []Category {
	expense := []string{"Food", "Travel", "Shopping", "Entertainment", "Rent", "Bills", "Health"}
	income := []string{"Salary", "Freelance", "Gift", "Bonus"}

	out := make([]Category, 0, len(expense)+len(income))
	for _, name := range expense {
		out = append(out, Category{ID: categoryID(name), Name: name, Type: Expense})
	}
	for _, name := range income {
		out = append(out, Category{ID: categoryID(name), Name: name, Type: Income})
	}
	return out
}

func categoryID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
