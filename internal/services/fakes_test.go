package services

import (
	"context"
	"errors"

	"github.com/oscarlagatta/next-cash/internal/core"
)

// fakeStore implements TransactionStore with canned data and call
// counters.
type fakeStore struct {
	insertID    int64
	inserted    []core.Transaction
	updateRows  int64
	updateCalls int
	deleteRows  int64
	deleteCalls int
	transaction *core.Transaction
	recent      []core.TransactionListItem
	byMonth     []core.TransactionListItem
	lastLimit   int
	entries     []core.CashflowEntry
	years       []int
	err         error
}

func (f *fakeStore) InsertTransaction(_ context.Context, t core.Transaction) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, t)
	return f.insertID, nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, _ string, _ int64, _ core.TransactionDraft) (int64, error) {
	f.updateCalls++
	return f.updateRows, f.err
}

func (f *fakeStore) DeleteTransaction(_ context.Context, _ string, _ int64) (int64, error) {
	f.deleteCalls++
	return f.deleteRows, f.err
}

func (f *fakeStore) GetTransaction(_ context.Context, _ string, _ int64) (*core.Transaction, error) {
	return f.transaction, f.err
}

func (f *fakeStore) ListRecent(_ context.Context, _ string, limit int) ([]core.TransactionListItem, error) {
	f.lastLimit = limit
	return f.recent, f.err
}

func (f *fakeStore) ListByMonth(_ context.Context, _ string, _, _ int) ([]core.TransactionListItem, error) {
	return f.byMonth, f.err
}

func (f *fakeStore) ListCashflowEntries(_ context.Context, _ string, _ int) ([]core.CashflowEntry, error) {
	return f.entries, f.err
}

func (f *fakeStore) DistinctYears(_ context.Context, _ string) ([]int, error) {
	return f.years, f.err
}

// fakeCategories implements CategoryStore over a fixed slice.
type fakeCategories struct {
	cats []core.Category
	err  error
}

func (f *fakeCategories) ListCategories(_ context.Context) ([]core.Category, error) {
	return f.cats, f.err
}

func (f *fakeCategories) GetCategory(_ context.Context, id int64) (*core.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.cats {
		if f.cats[i].ID == id {
			return &f.cats[i], nil
		}
	}
	return nil, nil
}

// fakeEvents records published events and can be made to fail.
type fakeEvents struct {
	published []string
	fail      bool
}

func (f *fakeEvents) PublishTransactionEvent(_ context.Context, action, _ string, _ int64) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.published = append(f.published, action)
	return nil
}
