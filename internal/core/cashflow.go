package core

// CashflowEntry is the minimal projection the aggregator consumes: one
// transaction's month bucket, magnitude and category type.
type CashflowEntry struct {
	Month  int // 1-12
	Amount Money
	Type   CategoryType
}

// MonthCashflow holds the aggregated figures for a single calendar month.
// Income and Expense are non-negative; Balance may be negative.
type MonthCashflow struct {
	Month   int // 1-12
	Income  Money
	Expense Money
	Balance Money
}

// AnnualCashflow is a dense January-to-December series plus year totals.
// Months with no transactions carry zeroes; the series is never sparse.
type AnnualCashflow struct {
	Year    int
	Months  [12]MonthCashflow
	Income  Money
	Expense Money
	Balance Money
}

// BuildAnnualCashflow buckets the given entries by calendar month and
// sums income and expense per bucket. Entries outside months 1-12 or
// with an unknown category type are skipped; they cannot be attributed
// a sign.
func BuildAnnualCashflow(year int, entries []CashflowEntry) AnnualCashflow {
	cf := AnnualCashflow{Year: year}
	for i := range cf.Months {
		cf.Months[i].Month = i + 1
	}

	for _, e := range entries {
		if e.Month < 1 || e.Month > 12 || !e.Type.Valid() {
			continue
		}
		m := &cf.Months[e.Month-1]
		switch e.Type {
		case CategoryIncome:
			m.Income.Cents += e.Amount.Cents
		case CategoryExpense:
			m.Expense.Cents += e.Amount.Cents
		}
	}

	for i := range cf.Months {
		m := &cf.Months[i]
		m.Balance.Cents = m.Income.Cents - m.Expense.Cents
		cf.Income.Cents += m.Income.Cents
		cf.Expense.Cents += m.Expense.Cents
	}
	cf.Balance.Cents = cf.Income.Cents - cf.Expense.Cents

	return cf
}
