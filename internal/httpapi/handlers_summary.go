package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"spendwise/internal/export"
	"spendwise/internal/insight"
	"spendwise/internal/log"
)

type monthlySummaryResponse struct {
	YearMonth    string  `json:"yearMonth"`
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
}

func (s *Server) handleMonthlySummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.ledger.MonthlySummaries(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly summaries error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute summaries")
		return
	}
	out := make([]monthlySummaryResponse, 0, len(summaries))
	for _, m := range summaries {
		out = append(out, monthlySummaryResponse{
			YearMonth:    m.YearMonth,
			TotalIncome:  m.TotalIncome.Units(),
			TotalExpense: m.TotalExpense.Units(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type dailyTrendResponse struct {
	Day          string  `json:"day"`
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
}

func (s *Server) handleDailyTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := s.ledger.DailyTrends(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Daily trends error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute trends")
		return
	}
	out := make([]dailyTrendResponse, 0, len(trends))
	for _, d := range trends {
		out = append(out, dailyTrendResponse{
			Day:          d.Day.Format("2006-01-02"),
			TotalIncome:  d.TotalIncome.Units(),
			TotalExpense: d.TotalExpense.Units(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSpendingAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := s.ledger.SpendingAlert(r.Context(), time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Spending alert error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute spending alert")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"alert": alert})
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "insight generation is not configured")
		return
	}

	balances, err := s.ledger.Balances(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Insight balances error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to derive balances")
		return
	}
	txns, err := s.ledger.Transactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Insight transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	snap := insight.BuildSnapshot(balances, txns, time.Now())
	text, err := s.advisor.Generate(r.Context(), snap)
	if err != nil {
		s.reqLog.LogError(r.Context(), "Insight generation failed", err, log.ComponentInsight, "generate", log.NewFields())
		writeError(w, http.StatusBadGateway, "failed to generate insight")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"insight": text})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	txns, err := s.ledger.Transactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := export.WriteTransactionsCSV(w, txns); err != nil {
		slog.ErrorContext(r.Context(), "CSV write error", "error", err)
	}
}
