package services

import (
	"context"
	"fmt"

	"github.com/oscarlagatta/next-cash/internal/core"
)

// CashflowService computes annual income/expense/balance series from the
// transaction store.
type CashflowService struct {
	store TransactionStore
}

func NewCashflowService(store TransactionStore) *CashflowService {
	return &CashflowService{store: store}
}

// GetAnnualCashflow returns the dense January-to-December series for the
// given year. An empty userID is treated as an unauthenticated caller
// and yields the all-zero series rather than an error.
func (s *CashflowService) GetAnnualCashflow(ctx context.Context, userID string, year int) (core.AnnualCashflow, error) {
	if userID == "" {
		return core.BuildAnnualCashflow(year, nil), nil
	}

	entries, err := s.store.ListCashflowEntries(ctx, userID, year)
	if err != nil {
		return core.AnnualCashflow{}, fmt.Errorf("load cashflow entries (year=%d): %w", year, err)
	}

	return core.BuildAnnualCashflow(year, entries), nil
}
