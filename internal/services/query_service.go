package services

import (
	"context"
	"fmt"
	"time"

	"github.com/oscarlagatta/next-cash/internal/core"
)

// DefaultRecentLimit is the dashboard's recent-transactions page size.
const DefaultRecentLimit = 5

// QueryService serves the read-only transaction lists and the year
// selector data. All operations are idempotent and side-effect-free.
type QueryService struct {
	store      TransactionStore
	categories CategoryStore
	now        func() time.Time
}

func NewQueryService(store TransactionStore, categories CategoryStore) *QueryService {
	return &QueryService{
		store:      store,
		categories: categories,
		now:        time.Now,
	}
}

// GetRecentTransactions returns at most limit transactions, most recent
// first, joined with their category name and type. An empty userID
// yields an empty list without error.
func (s *QueryService) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]core.TransactionListItem, error) {
	if userID == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	items, err := s.store.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return items, nil
}

// GetTransactionsByMonth returns the user's transactions for one
// calendar month, most recent first.
func (s *QueryService) GetTransactionsByMonth(ctx context.Context, userID string, year, month int) ([]core.TransactionListItem, error) {
	if userID == "" {
		return nil, nil
	}

	items, err := s.store.ListByMonth(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions (year=%d, month=%d): %w", year, month, err)
	}
	return items, nil
}

// GetTransaction fetches a single transaction owned by userID, nil when
// absent or owned by someone else.
func (s *QueryService) GetTransaction(ctx context.Context, userID string, id int64) (*core.Transaction, error) {
	if userID == "" {
		return nil, nil
	}

	t, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// GetTransactionYearsRange returns the distinct years present in the
// user's history, most recent first. The current year is always part of
// the result so year selectors stay usable for empty histories.
func (s *QueryService) GetTransactionYearsRange(ctx context.Context, userID string) ([]int, error) {
	current := s.now().Year()
	if userID == "" {
		return []int{current}, nil
	}

	years, err := s.store.DistinctYears(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("distinct transaction years: %w", err)
	}

	for _, y := range years {
		if y == current {
			return years, nil
		}
	}

	// keep descending order when inserting the fallback year
	out := make([]int, 0, len(years)+1)
	inserted := false
	for _, y := range years {
		if !inserted && current > y {
			out = append(out, current)
			inserted = true
		}
		out = append(out, y)
	}
	if !inserted {
		out = append(out, current)
	}
	return out, nil
}

// GetCategories returns the full category taxonomy for form selects.
func (s *QueryService) GetCategories(ctx context.Context) ([]core.Category, error) {
	cats, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}
