package core

import (
	"errors"
	"time"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

type (
	// CategoryType classifies a category as income or expense and
	// determines the sign a transaction contributes to aggregation.
	CategoryType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Category is seeded by migrations and immutable afterwards.
	Category struct {
		ID   int64
		Name string
		Type CategoryType
	}

	Transaction struct {
		ID          int64
		UserID      string
		CategoryID  int64
		Amount      Money // positive magnitude, sign derived from category type
		Description string
		Date        Date
	}

	// TransactionListItem is the read projection of a transaction joined
	// with its category. Category and Type stay empty when the category
	// row no longer exists.
	TransactionListItem struct {
		ID          int64
		Description string
		Amount      Money
		Date        Date
		Category    string
		Type        CategoryType
	}
)

// ErrUnauthorized is returned by mutations when no user identity is
// present. Its text is the collaborator-visible message.
var ErrUnauthorized = errors.New("Unauthorized")

// Valid reports whether t is one of the two known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String renders the date in YYYY-MM-DD form, the storage encoding.
func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
