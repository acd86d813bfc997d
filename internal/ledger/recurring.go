package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendwise/internal/core"
)

// RecurringProcessor materializes due recurring rules into concrete
// transactions and advances each rule's next-due date.
type RecurringProcessor struct {
	store   Store
	service *Service
}

func NewRecurringProcessor(store Store, service *Service) *RecurringProcessor {
	return &RecurringProcessor{store: store, service: service}
}

// ProcessDueRules fires every rule whose NextDue is at or before the end of
// now's day. It returns how many rules fired.
//
// A failure fetching the due set fails the whole run and should be retried by
// the scheduler. A failure on a single rule is logged and skipped; the rest
// of the batch still runs. The next-due date is advanced only after the
// transaction is written, so a crash in between re-fires that rule on the
// next run (at-least-once).
func (p *RecurringProcessor) ProcessDueRules(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.service == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	cutoff := core.EndOfDay(now)
	due, err := p.store.DueRecurringRules(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("fetch due recurring rules: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring rules",
		"due", len(due),
		"cutoff", cutoff.Format("2006-01-02 15:04"))

	fired := 0
	for _, rule := range due {
		tx := core.Transaction{
			AccountID: rule.AccountID,
			Amount:    rule.Amount,
			Type:      rule.Type,
			Category:  rule.Category,
			Date:      rule.NextDue,
			Note:      rule.Note,
		}
		if tx.Note == "" {
			tx.Note = "Recurring: " + rule.Category
		}

		created, err := p.service.CreateTransaction(ctx, tx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring rule",
				"rule_id", rule.ID,
				"category", rule.Category,
				"error", err)
			continue
		}

		rule.NextDue = NextDueDate(rule.NextDue, rule.Frequency)
		if err := p.store.PutRecurringRule(ctx, rule); err != nil {
			// The transaction exists; without the advance this rule fires
			// again next run.
			slog.ErrorContext(ctx, "Failed to advance recurring rule",
				"rule_id", rule.ID,
				"error", err)
			continue
		}

		fired++
		slog.InfoContext(ctx, "Materialized recurring transaction",
			"rule_id", rule.ID,
			"transaction_id", created.ID,
			"category", rule.Category,
			"amount_cents", rule.Amount.Cents,
			"next_due", rule.NextDue.Format("2006-01-02"))
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"fired", fired,
		"due", len(due))
	return fired, nil
}

// PublishDailyReminder announces how many rules come due by the end of now's
// day, as a "reminder" event on the sync pipeline. Delivery to the account
// owner happens outside this service; the mirror worker acknowledges and
// drops the event. Days with nothing due publish nothing. Returns the due
// count.
func (p *RecurringProcessor) PublishDailyReminder(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.service == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	due, err := p.store.DueRecurringRules(ctx, core.EndOfDay(now))
	if err != nil {
		return 0, fmt.Errorf("fetch due recurring rules: %w", err)
	}
	if len(due) == 0 {
		slog.InfoContext(ctx, "No recurring rules due, skipping reminder")
		return 0, nil
	}

	day := now.Format("2006-01-02")
	p.service.publish(ctx, "reminder", day, "notify")
	slog.InfoContext(ctx, "Published daily reminder", "due", len(due), "day", day)
	return len(due), nil
}

// NextDueDate computes the occurrence after current for a frequency and
// normalizes the result to local midnight. Month and year steps clamp the day
// to the target month's length (Jan 31 + 1 month = Feb 28/29). An
// unrecognized frequency advances monthly.
func NextDueDate(current time.Time, freq core.Frequency) time.Time {
	var next time.Time
	switch freq {
	case core.Daily:
		next = current.AddDate(0, 0, 1)
	case core.Weekly:
		next = current.AddDate(0, 0, 7)
	case core.Yearly:
		next = addMonthsClamped(current, 12)
	case core.Monthly:
		next = addMonthsClamped(current, 1)
	default:
		slog.Warn("Unknown recurring frequency, defaulting to monthly", "frequency", string(freq))
		next = addMonthsClamped(current, 1)
	}
	return core.Midnight(next)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := daysInMonth(firstOfTarget)
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return firstOfTarget.AddDate(0, 0, day-1)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
