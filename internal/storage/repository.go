// Package storage is the SQLite persistence layer. It is the authoritative
// local store; the mirror worker copies transaction rows out to the remote
// spreadsheet asynchronously, tracked by the sync_status column.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendwise/internal/core"

	_ "modernc.org/sqlite"
)

// Transaction mirror states.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- accounts ---

func (r *SQLiteRepository) Accounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, initial_balance_cents, credit_limit_cents
		 FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var (
			a     core.Account
			typ   string
			limit sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.Name, &typ, &a.InitialBalance.Cents, &limit); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Type = core.AccountType(typ)
		if limit.Valid {
			a.CreditLimit = &core.Money{Cents: limit.Int64}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddAccount(ctx context.Context, a core.Account) error {
	var limit sql.NullInt64
	if a.CreditLimit != nil {
		limit = sql.NullInt64{Int64: a.CreditLimit.Cents, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, type, initial_balance_cents, credit_limit_cents)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name,
		   type = excluded.type,
		   initial_balance_cents = excluded.initial_balance_cents,
		   credit_limit_cents = excluded.credit_limit_cents`,
		a.ID, a.Name, string(a.Type), a.InitialBalance.Cents, limit)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- transactions ---

func (r *SQLiteRepository) Transactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, amount_cents, type, category, date_ms, note
		 FROM transactions ORDER BY date_ms, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, amount_cents, type, category, date_ms, note
		 FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, amount_cents, type, category, date_ms, note, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Amount.Cents, string(t.Type), t.Category, t.Date.UnixMilli(), t.Note, SyncPending)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"amount_cents", t.Amount.Cents,
		"type", string(t.Type))
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET account_id = ?, amount_cents = ?, type = ?, category = ?, date_ms = ?, note = ?, sync_status = ?
		 WHERE id = ?`,
		t.AccountID, t.Amount.Cents, string(t.Type), t.Category, t.Date.UnixMilli(), t.Note, SyncPending, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// PendingSyncTransactions returns transactions not yet mirrored, oldest first.
func (r *SQLiteRepository) PendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, amount_cents, type, category, date_ms, note
		 FROM transactions WHERE sync_status = ? ORDER BY created_at, id LIMIT ?`,
		SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncSynced, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "transaction_id", id)
	return nil
}

// --- budgets ---

func (r *SQLiteRepository) BudgetsForMonth(ctx context.Context, yearMonth string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount_cents, year_month
		 FROM budgets WHERE year_month = ? ORDER BY category`, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount.Cents, &b.YearMonth); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) PutBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, category, amount_cents, year_month)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET amount_cents = excluded.amount_cents`,
		b.ID, b.Category, b.Amount.Cents, b.YearMonth)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- recurring rules ---

func (r *SQLiteRepository) RecurringRules(ctx context.Context) ([]core.RecurringRule, error) {
	return r.queryRules(ctx,
		`SELECT id, account_id, amount_cents, type, category, note, frequency, next_due_ms
		 FROM recurring_rules ORDER BY next_due_ms, id`)
}

func (r *SQLiteRepository) DueRecurringRules(ctx context.Context, cutoff time.Time) ([]core.RecurringRule, error) {
	return r.queryRules(ctx,
		`SELECT id, account_id, amount_cents, type, category, note, frequency, next_due_ms
		 FROM recurring_rules WHERE next_due_ms <= ? ORDER BY next_due_ms, id`,
		cutoff.UnixMilli())
}

func (r *SQLiteRepository) queryRules(ctx context.Context, query string, args ...any) ([]core.RecurringRule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recurring rules: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringRule
	for rows.Next() {
		var (
			rule  core.RecurringRule
			typ   string
			freq  string
			dueMs int64
		)
		if err := rows.Scan(&rule.ID, &rule.AccountID, &rule.Amount.Cents, &typ, &rule.Category, &rule.Note, &freq, &dueMs); err != nil {
			return nil, fmt.Errorf("scan recurring rule: %w", err)
		}
		rule.Type = core.TransactionType(typ)
		rule.Frequency = core.Frequency(freq)
		rule.NextDue = time.UnixMilli(dueMs)
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) PutRecurringRule(ctx context.Context, rule core.RecurringRule) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_rules (id, account_id, amount_cents, type, category, note, frequency, next_due_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   account_id = excluded.account_id,
		   amount_cents = excluded.amount_cents,
		   type = excluded.type,
		   category = excluded.category,
		   note = excluded.note,
		   frequency = excluded.frequency,
		   next_due_ms = excluded.next_due_ms`,
		rule.ID, rule.AccountID, rule.Amount.Cents, string(rule.Type), rule.Category, rule.Note, string(rule.Frequency), rule.NextDue.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert recurring rule: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteRecurringRule(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- categories ---

func (r *SQLiteRepository) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c   core.Category
			typ string
		)
		if err := rows.Scan(&c.ID, &c.Name, &typ); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) PutCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, type) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name, type = excluded.type`,
		c.ID, c.Name, string(c.Type))
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t      core.Transaction
		typ    string
		dateMs int64
	)
	if err := row.Scan(&t.ID, &t.AccountID, &t.Amount.Cents, &typ, &t.Category, &dateMs, &t.Note); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Type = core.TransactionType(typ)
	t.Date = time.UnixMilli(dateMs)
	return t, nil
}
