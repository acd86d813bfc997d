package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"
)

type budgetProgressResponse struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	YearMonth   string  `json:"yearMonth"`
	Amount      float64 `json:"amount"`
	SpentAmount float64 `json:"spentAmount"`
	Progress    float64 `json:"progress"`
	Status      string  `json:"status"`
}

func toBudgetProgressResponse(p core.BudgetProgress) budgetProgressResponse {
	return budgetProgressResponse{
		ID:          p.Budget.ID,
		Category:    p.Budget.Category,
		YearMonth:   p.Budget.YearMonth,
		Amount:      p.Budget.Amount.Units(),
		SpentAmount: p.SpentAmount.Units(),
		Progress:    p.Progress,
		Status:      string(p.Status()),
	}
}

// monthParam reads ?month=YYYY-MM, defaulting to the current month.
func monthParam(r *http.Request) (string, bool) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		return core.MonthKey(time.Now()), true
	}
	if _, err := core.ParseYearMonth(month); err != nil {
		return "", false
	}
	return month, true
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	progress, err := s.ledger.BudgetProgressForMonth(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget progress error", "year_month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute budget progress")
		return
	}

	out := make([]budgetProgressResponse, 0, len(progress))
	for _, p := range progress {
		out = append(out, toBudgetProgressResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopBudgets(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	top, err := s.ledger.TopBudgetsForMonth(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Top budgets error", "year_month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute top budgets")
		return
	}

	out := make([]budgetProgressResponse, 0, len(top))
	for _, p := range top {
		out = append(out, toBudgetProgressResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

type setBudgetRequest struct {
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	YearMonth string `json:"yearMonth"`
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid budget amount")
		return
	}

	b, err := s.ledger.SetBudget(r.Context(), req.Category, core.Money{Cents: cents}, req.YearMonth)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBudgetProgressResponse(core.BudgetProgress{Budget: b}))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteBudget(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete budget error", "budget_id", id, "error", err)
		writeError(w, http.StatusNotFound, "budget not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- recurring rules ---

type recurringResponse struct {
	ID        string  `json:"id"`
	AccountID string  `json:"accountId"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Note      string  `json:"note,omitempty"`
	Frequency string  `json:"frequency"`
	NextDue   string  `json:"nextDue"`
}

func toRecurringResponse(rule core.RecurringRule) recurringResponse {
	return recurringResponse{
		ID:        rule.ID,
		AccountID: rule.AccountID,
		Amount:    rule.Amount.Units(),
		Type:      string(rule.Type),
		Category:  rule.Category,
		Note:      rule.Note,
		Frequency: string(rule.Frequency),
		NextDue:   rule.NextDue.Format("2006-01-02"),
	}
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	rules, err := s.ledger.RecurringRules(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List recurring rules error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list recurring rules")
		return
	}
	out := make([]recurringResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toRecurringResponse(rule))
	}
	writeJSON(w, http.StatusOK, out)
}

type createRecurringRequest struct {
	AccountID string `json:"accountId"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Note      string `json:"note,omitempty"`
	Frequency string `json:"frequency"`
	StartDate string `json:"startDate"`
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid transaction type")
		return
	}
	freq, err := core.ParseFrequency(req.Frequency)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid frequency")
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid start date, expected YYYY-MM-DD")
		return
	}

	rule, err := s.ledger.CreateRecurringRule(r.Context(), core.RecurringRule{
		AccountID: req.AccountID,
		Amount:    core.Money{Cents: cents},
		Type:      typ,
		Category:  req.Category,
		Note:      req.Note,
		Frequency: freq,
		NextDue:   core.Midnight(start),
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringResponse(rule))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteRecurringRule(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete recurring rule error", "rule_id", id, "error", err)
		writeError(w, http.StatusNotFound, "recurring rule not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- categories ---

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.ledger.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, Type: string(c.Type)})
	}
	writeJSON(w, http.StatusOK, out)
}

type createCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid category type")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "category name cannot be empty")
		return
	}

	c := core.Category{ID: uuid.NewString(), Name: strings.TrimSpace(req.Name), Type: typ}
	if err := s.ledger.AddCategory(r.Context(), c); err != nil {
		slog.ErrorContext(r.Context(), "Create category error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{ID: c.ID, Name: c.Name, Type: string(c.Type)})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteCategory(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete category error", "category_id", id, "error", err)
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
