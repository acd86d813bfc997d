package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/core"
	"spendwise/internal/ledger"
)

type accountResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	CurrentBalance  float64  `json:"currentBalance"`
	CreditLimit     *float64 `json:"creditLimit,omitempty"`
	AvailableCredit *float64 `json:"availableCredit,omitempty"`
}

func toAccountResponse(b core.AccountBalance) accountResponse {
	resp := accountResponse{
		ID:             b.Account.ID,
		Name:           b.Account.Name,
		Type:           string(b.Account.Type),
		CurrentBalance: b.CurrentBalance.Units(),
	}
	if b.Account.CreditLimit != nil {
		limit := b.Account.CreditLimit.Units()
		resp.CreditLimit = &limit
	}
	if b.AvailableCredit != nil {
		avail := b.AvailableCredit.Units()
		resp.AvailableCredit = &avail
	}
	return resp
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	balances, err := s.ledger.Balances(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List accounts error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	out := make([]accountResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toAccountResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

type createAccountRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Balance     string `json:"balance"`
	CreditLimit string `json:"creditLimit,omitempty"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := s.ledger.CreateAccount(r.Context(), ledger.AccountParams{
		Name:        req.Name,
		Type:        req.Type,
		Balance:     req.Balance,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Derive the balance the same way list responses do, so a credit card
	// comes back with its available credit from the start.
	writeJSON(w, http.StatusCreated, toAccountResponse(core.DeriveBalances([]core.Account{account}, nil)[0]))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.DeleteAccount(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete account error", "account_id", id, "error", err)
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNetWorth(w http.ResponseWriter, r *http.Request) {
	balances, err := s.ledger.Balances(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Net worth error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to derive balances")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"netWorth": core.NetWorth(balances).Units()})
}

type transferRequest struct {
	FromAccountID string `json:"fromAccountId"`
	ToAccountID   string `json:"toAccountId"`
	Amount        string `json:"amount"`
	Date          string `json:"date,omitempty"`
	Note          string `json:"note,omitempty"`
}

type transferResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		// Invalid input is a declined transfer, not a server error.
		writeJSON(w, http.StatusOK, transferResponse{Message: "Amount must be greater than zero"})
		return
	}

	date := time.Now()
	if strings.TrimSpace(req.Date) != "" {
		d, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = d
	}

	result, err := s.ledger.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, core.Money{Cents: cents}, date, req.Note)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transfer error", "error", err)
		writeError(w, http.StatusInternalServerError, "transfer failed")
		return
	}

	writeJSON(w, http.StatusOK, transferResponse{OK: result.OK, Message: result.Message})
}

type addLoanRequest struct {
	Name              string `json:"name"`
	Amount            string `json:"amount"`
	CreditToAccountID string `json:"creditToAccountId,omitempty"`
}

func (s *Server) handleAddLoan(w http.ResponseWriter, r *http.Request) {
	var req addLoanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid loan amount")
		return
	}

	loan, err := core.NewAccount(uuid.NewString(), req.Name, core.LoanTaken, core.Money{Cents: cents}, nil)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.ledger.AddLoan(r.Context(), loan, req.CreditToAccountID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Add loan error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record loan")
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(core.DeriveBalances([]core.Account{created}, nil)[0]))
}
