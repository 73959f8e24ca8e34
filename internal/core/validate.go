package core

import (
	"errors"
	"time"
	"unicode/utf8"
)

const (
	descriptionMinLen = 3
	descriptionMaxLen = 300
)

var ErrInvalidAmount = errors.New("invalid amount")

// ValidationError carries the message of the first violated rule. Its
// text is the collaborator-visible message rendered to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// TransactionDraft is the validated input for creating or updating a
// transaction.
type TransactionDraft struct {
	Amount      Money
	Description string
	CategoryID  int64
	Date        Date
}

// draftRules are evaluated in declaration order; the first failing rule
// short-circuits and its message is returned verbatim.
var draftRules = []struct {
	field string
	check func(d TransactionDraft, now time.Time) string
}{
	{"amount", func(d TransactionDraft, _ time.Time) string {
		if d.Amount.Cents <= 0 {
			return "Amount must be greater than 0"
		}
		return ""
	}},
	{"description", func(d TransactionDraft, _ time.Time) string {
		// Bounds are in characters, not bytes.
		n := utf8.RuneCountInString(d.Description)
		if n < descriptionMinLen {
			return "Description must be at least 3 characters"
		}
		if n > descriptionMaxLen {
			return "Description must contain no more than 300 characters"
		}
		return ""
	}},
	{"categoryId", func(d TransactionDraft, _ time.Time) string {
		if d.CategoryID <= 0 {
			return "Category ID is invalid"
		}
		return ""
	}},
	{"transactionDate", func(d TransactionDraft, now time.Time) string {
		if d.Date.IsZero() {
			return "Transaction date is invalid"
		}
		// The window is [100 years ago, tomorrow], inclusive on both
		// ends, evaluated against the calendar date of now.
		today := NewDate(now.Year(), int(now.Month()), now.Day())
		min := Date{Time: today.AddDate(-100, 0, 0)}
		max := Date{Time: today.AddDate(0, 0, 1)}
		day := NewDate(d.Date.Year(), d.Date.Month(), d.Date.Day())
		if day.Before(min.Time) {
			return "Transaction date is too far in the past"
		}
		if day.After(max.Time) {
			return "Transaction date cannot be past tomorrow"
		}
		return ""
	}},
}

// ValidateAt checks the draft against all rules in fixed field order
// (amount, description, categoryId, transactionDate) relative to now.
func (d TransactionDraft) ValidateAt(now time.Time) error {
	for _, r := range draftRules {
		if msg := r.check(d, now); msg != "" {
			return &ValidationError{Field: r.field, Message: msg}
		}
	}
	return nil
}

// Validate checks the draft against the current date.
func (d TransactionDraft) Validate() error {
	return d.ValidateAt(time.Now())
}
