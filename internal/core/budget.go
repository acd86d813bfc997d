package core

import "sort"

// BudgetStatus is the three-tier rendering contract consumers rely on:
// over budget above 1.0, near the limit above 0.8, on track otherwise.
type BudgetStatus string

const (
	BudgetOnTrack   BudgetStatus = "on_track"
	BudgetNearLimit BudgetStatus = "near_limit"
	BudgetOverspent BudgetStatus = "overspent"
)

// BudgetProgress pairs a budget with the spend recorded against its category
// in its month. Progress is not clamped; values above 1.0 mean over budget.
type BudgetProgress struct {
	Budget      Budget
	SpentAmount Money
	Progress    float64
}

func (p BudgetProgress) Status() BudgetStatus {
	switch {
	case p.Progress > 1.0:
		return BudgetOverspent
	case p.Progress > 0.8:
		return BudgetNearLimit
	default:
		return BudgetOnTrack
	}
}

// CalculateBudgetProgress computes spent-vs-budget for every budget in the
// given month. Only expense transactions dated inside yearMonth count, matched
// by category. A zero budgeted amount yields progress 0 rather than dividing.
func CalculateBudgetProgress(budgets []Budget, txns []Transaction, yearMonth string) []BudgetProgress {
	spentByCategory := make(map[string]int64)
	for _, t := range txns {
		if t.Type != Expense {
			continue
		}
		if MonthKey(t.Date) != yearMonth {
			continue
		}
		spentByCategory[t.Category] += t.Amount.Cents
	}

	out := make([]BudgetProgress, len(budgets))
	for i, b := range budgets {
		spent := Money{Cents: spentByCategory[b.Category]}
		var progress float64
		if b.Amount.Cents > 0 {
			progress = float64(spent.Cents) / float64(b.Amount.Cents)
		}
		out[i] = BudgetProgress{Budget: b, SpentAmount: spent, Progress: progress}
	}
	return out
}

// TopBudgets returns at most three entries, descending by spent amount.
func TopBudgets(progress []BudgetProgress) []BudgetProgress {
	sorted := make([]BudgetProgress, len(progress))
	copy(sorted, progress)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SpentAmount.Cents > sorted[j].SpentAmount.Cents
	})
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}
	return sorted
}
