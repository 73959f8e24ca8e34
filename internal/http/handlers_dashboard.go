package http

import (
	"log/slog"
	"net/http"

	"github.com/oscarlagatta/next-cash/internal/core"
	applog "github.com/oscarlagatta/next-cash/internal/log"
)

type monthCashflowResponse struct {
	Month        int   `json:"month"`
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
	BalanceCents int64 `json:"balance_cents"`
}

type cashflowResponse struct {
	Year         int                     `json:"year"`
	Months       []monthCashflowResponse `json:"months"`
	IncomeCents  int64                   `json:"income_cents"`
	ExpenseCents int64                   `json:"expense_cents"`
	BalanceCents int64                   `json:"balance_cents"`
}

func toCashflowResponse(cf core.AnnualCashflow) cashflowResponse {
	resp := cashflowResponse{
		Year:         cf.Year,
		Months:       make([]monthCashflowResponse, 0, len(cf.Months)),
		IncomeCents:  cf.Income.Cents,
		ExpenseCents: cf.Expense.Cents,
		BalanceCents: cf.Balance.Cents,
	}
	for _, m := range cf.Months {
		resp.Months = append(resp.Months, monthCashflowResponse{
			Month:        m.Month,
			IncomeCents:  m.Income.Cents,
			ExpenseCents: m.Expense.Cents,
			BalanceCents: m.Balance.Cents,
		})
	}
	return resp
}

// handleCashflow serves the annual income/expense/balance series that
// backs the dashboard chart.
func (s *Server) handleCashflow(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	year, _ := parseYearMonth(r)

	if userID != "" {
		if cached, found := s.cashflowCache.Get(cashflowKey(userID, year)); found {
			slog.DebugContext(r.Context(), "Cashflow cache hit",
				applog.FieldUserID, userID, applog.FieldYear, year)
			writeJSON(w, http.StatusOK, toCashflowResponse(cached))
			return
		}
	}

	cf, err := s.cashflow.GetAnnualCashflow(r.Context(), userID, year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Cashflow query failed",
			applog.FieldError, err, applog.FieldYear, year)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	if userID != "" {
		s.cashflowCache.Set(cashflowKey(userID, year), cf)
	}
	writeJSON(w, http.StatusOK, toCashflowResponse(cf))
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	if userID != "" {
		if cached, found := s.yearsCache.Get(userID); found {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	years, err := s.queries.GetTransactionYearsRange(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Years query failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	if userID != "" {
		s.yearsCache.Set(userID, years)
	}
	writeJSON(w, http.StatusOK, years)
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.queries.GetCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Categories query failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	resp := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		resp = append(resp, categoryResponse{ID: c.ID, Name: c.Name, Type: string(c.Type)})
	}
	writeJSON(w, http.StatusOK, resp)
}
