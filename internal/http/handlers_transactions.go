package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/oscarlagatta/next-cash/internal/core"
	applog "github.com/oscarlagatta/next-cash/internal/log"
)

type transactionItemResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Date        string `json:"transaction_date"`
	Category    string `json:"category,omitempty"`
	Type        string `json:"type,omitempty"`
}

func toItemResponses(items []core.TransactionListItem) []transactionItemResponse {
	resp := make([]transactionItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, transactionItemResponse{
			ID:          it.ID,
			Description: it.Description,
			AmountCents: it.Amount.Cents,
			Date:        it.Date.String(),
			Category:    it.Category,
			Type:        string(it.Type),
		})
	}
	return resp
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	Date        string `json:"transaction_date"`
}

// decimalString accepts a JSON number or string so both `12.34` and
// `"12.34"` payloads parse.
type decimalString string

func (d *decimalString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = decimalString(s)
		return nil
	}
	*d = decimalString(b)
	return nil
}

// transactionRequest is the mutation payload. Amount parse failures
// surface through validation rather than a decode error.
type transactionRequest struct {
	Amount      decimalString `json:"amount"`
	Description string        `json:"description"`
	CategoryID  int64         `json:"categoryId"`
	Date        string        `json:"transactionDate"`
}

func (req transactionRequest) toDraft() core.TransactionDraft {
	draft := core.TransactionDraft{
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if cents, err := core.ParseDecimalToCents(string(req.Amount)); err == nil {
		draft.Amount = core.Money{Cents: cents}
	}
	if d, err := core.ParseDate(req.Date); err == nil {
		draft.Date = d
	}
	return draft
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	if userID != "" {
		if cached, found := s.recentCache.Get(userID); found {
			slog.DebugContext(r.Context(), "Recent transactions cache hit",
				applog.FieldUserID, userID)
			writeJSON(w, http.StatusOK, toItemResponses(cached))
			return
		}
	}

	items, err := s.queries.GetRecentTransactions(r.Context(), userID, s.opts.RecentLimit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Recent transactions query failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	if userID != "" {
		s.recentCache.Set(userID, items)
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	year, month := parseYearMonth(r)

	items, err := s.queries.GetTransactionsByMonth(r.Context(), userID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transactions query failed",
			applog.FieldError, err, applog.FieldYear, year, applog.FieldMonth, month)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, toItemResponses(items))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Transaction ID is invalid")
		return
	}

	tx, err := s.queries.GetTransaction(r.Context(), userID, id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction lookup failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if tx == nil {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	writeJSON(w, http.StatusOK, transactionResponse{
		ID:          tx.ID,
		CategoryID:  tx.CategoryID,
		AmountCents: tx.Amount.Cents,
		Description: tx.Description,
		Date:        tx.Date.String(),
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft := req.toDraft()
	id, err := s.transactions.Create(r.Context(), userID, draft)
	if err != nil {
		respondMutationError(w, r, err)
		return
	}

	s.invalidateUser(userID, draft.Date.Year(), time.Now().Year())
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Transaction ID is invalid")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The stored row may live in a different year than the new date;
	// look it up so both cached series are dropped.
	years := []int{time.Now().Year()}
	if prev, err := s.queries.GetTransaction(r.Context(), userID, id); err == nil && prev != nil {
		years = append(years, prev.Date.Year())
	}

	draft := req.toDraft()
	if err := s.transactions.Update(r.Context(), userID, id, draft); err != nil {
		respondMutationError(w, r, err)
		return
	}

	s.invalidateUser(userID, append(years, draft.Date.Year())...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Transaction ID is invalid")
		return
	}

	years := []int{time.Now().Year()}
	if prev, err := s.queries.GetTransaction(r.Context(), userID, id); err == nil && prev != nil {
		years = append(years, prev.Date.Year())
	}

	if err := s.transactions.Delete(r.Context(), userID, id); err != nil {
		respondMutationError(w, r, err)
		return
	}

	s.invalidateUser(userID, years...)
	w.WriteHeader(http.StatusNoContent)
}
