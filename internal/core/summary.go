package core

import (
	"fmt"
	"sort"
	"time"
)

type (
	// MonthlySummary totals income and expense for one calendar month.
	MonthlySummary struct {
		YearMonth    string
		TotalIncome  Money
		TotalExpense Money
	}

	// DailyTrend totals income and expense for one day.
	DailyTrend struct {
		Day          time.Time
		TotalIncome  Money
		TotalExpense Money
	}
)

// MonthlySummaries groups all transactions by month, ascending by month key.
// Engine-generated transfer and loan-credit entries are excluded so that an
// internal money movement does not show up as income or spending.
func MonthlySummaries(txns []Transaction) []MonthlySummary {
	byMonth := make(map[string]*MonthlySummary)
	for _, t := range txns {
		if IsSystemCategory(t.Category) {
			continue
		}
		key := MonthKey(t.Date)
		s, ok := byMonth[key]
		if !ok {
			s = &MonthlySummary{YearMonth: key}
			byMonth[key] = s
		}
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
	}

	out := make([]MonthlySummary, 0, len(byMonth))
	for _, s := range byMonth {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out
}

// DailyTrends aggregates the last 30 days before now into per-day totals,
// ascending by day. System categories are excluded.
func DailyTrends(txns []Transaction, now time.Time) []DailyTrend {
	cutoff := now.AddDate(0, 0, -30)
	byDay := make(map[time.Time]*DailyTrend)
	for _, t := range txns {
		if IsSystemCategory(t.Category) {
			continue
		}
		if t.Date.Before(cutoff) {
			continue
		}
		day := Midnight(t.Date)
		d, ok := byDay[day]
		if !ok {
			d = &DailyTrend{Day: day}
			byDay[day] = d
		}
		switch t.Type {
		case Income:
			d.TotalIncome = d.TotalIncome.Add(t.Amount)
		case Expense:
			d.TotalExpense = d.TotalExpense.Add(t.Amount)
		}
	}

	out := make([]DailyTrend, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// TotalsByCategory sums amounts per category for one transaction type,
// skipping engine-generated entries.
func TotalsByCategory(txns []Transaction, typ TransactionType) map[string]Money {
	out := make(map[string]Money)
	for _, t := range txns {
		if t.Type != typ || IsSystemCategory(t.Category) {
			continue
		}
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// TotalInRange sums amounts of one type inside [start, end], inclusive.
func TotalInRange(txns []Transaction, typ TransactionType, start, end time.Time) Money {
	var total Money
	for _, t := range txns {
		if t.Type != typ || IsSystemCategory(t.Category) {
			continue
		}
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

// SpendingAlert compares this month's expense against last month's and returns
// a warning message when the increase exceeds 20%. The empty string means no
// alert.
func SpendingAlert(txns []Transaction, now time.Time) string {
	current := monthExpense(txns, now)
	previous := monthExpense(txns, now.AddDate(0, -1, 0))
	if previous.Cents <= 0 {
		return ""
	}
	if current.Cents <= previous.Cents+previous.Cents/5 {
		return ""
	}
	increase := (current.Cents*100)/previous.Cents - 100
	return fmt.Sprintf("Spending alert: you've spent %d%% more than last month", increase)
}

func monthExpense(txns []Transaction, anchor time.Time) Money {
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	end := EndOfDay(start.AddDate(0, 1, -1))
	return TotalInRange(txns, Expense, start, end)
}
