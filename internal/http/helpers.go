package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oscarlagatta/next-cash/internal/core"
	applog "github.com/oscarlagatta/next-cash/internal/log"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Response encoding failed", applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: true, Message: message})
}

// respondMutationError maps service errors onto HTTP statuses. The
// message of known error kinds is safe to expose; anything else is
// reported as a generic failure.
func respondMutationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrUnauthorized) {
		writeError(w, http.StatusUnauthorized, core.ErrUnauthorized.Error())
		return
	}
	if ve, ok := core.AsValidationError(err); ok {
		writeError(w, http.StatusUnprocessableEntity, ve.Message)
		return
	}
	slog.ErrorContext(r.Context(), "Transaction mutation failed",
		applog.FieldError, err,
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	writeError(w, http.StatusInternalServerError, "Something went wrong")
}

// userIDFrom reads the identity the auth proxy resolved for this
// request. Empty means unauthenticated.
func userIDFrom(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}

// parseYearMonth extracts year and month from query parameters,
// defaulting to the current year and month. Months outside 1-12 fall
// back to the current month so they never normalize into a
// neighboring year.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		} else {
			slog.WarnContext(r.Context(), "Invalid month parameter",
				applog.FieldMonth, v, "corrected_to", month)
		}
	}

	return year, month
}

// pathID parses the {id} path segment as a positive integer.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
