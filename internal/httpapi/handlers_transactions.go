package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"spendwise/internal/core"
)

type transactionResponse struct {
	ID        string  `json:"id"`
	AccountID string  `json:"accountId"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	Note      string  `json:"note,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID,
		AccountID: t.AccountID,
		Amount:    t.Amount.Units(),
		Type:      string(t.Type),
		Category:  t.Category,
		Date:      t.Date.Format("2006-01-02"),
		Note:      t.Note,
	}
}

type transactionRequest struct {
	AccountID string `json:"accountId"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Date      string `json:"date"`
	Note      string `json:"note,omitempty"`
}

// parseTransaction builds a core transaction from external input, parsing
// the amount, type, and date at the boundary.
func parseTransaction(req transactionRequest, id string) (core.Transaction, string) {
	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		return core.Transaction{}, "invalid transaction type"
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, "invalid amount"
	}

	date := time.Now()
	if strings.TrimSpace(req.Date) != "" {
		d, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			return core.Transaction{}, "invalid date, expected YYYY-MM-DD"
		}
		date = d
	}

	return core.Transaction{
		ID:        id,
		AccountID: req.AccountID,
		Amount:    core.Money{Cents: cents},
		Type:      typ,
		Category:  req.Category,
		Date:      date,
		Note:      req.Note,
	}, ""
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.ledger.Transactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	out := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	txn, msg := parseTransaction(req, "")
	if msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), txn)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.reqLog.LogTransactionCreated(r.Context(), created.ID, created.AccountID, created.Category, created.Amount.Cents)
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	txn, msg := parseTransaction(req, r.PathValue("id"))
	if msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := s.ledger.UpdateTransaction(r.Context(), txn); err != nil {
		slog.ErrorContext(r.Context(), "Update transaction error", "transaction_id", txn.ID, "error", err)
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(txn))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction error", "transaction_id", id, "error", err)
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
