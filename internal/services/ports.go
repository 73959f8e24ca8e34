package services

import (
	"context"

	"github.com/oscarlagatta/next-cash/internal/core"
)

// Ports for the durable store and outbound adapters.
type (
	// TransactionStore is the user-scoped durable record of transactions.
	// Implementations must include the owning user in every predicate.
	TransactionStore interface {
		InsertTransaction(ctx context.Context, t core.Transaction) (int64, error)
		UpdateTransaction(ctx context.Context, userID string, id int64, d core.TransactionDraft) (rows int64, err error)
		DeleteTransaction(ctx context.Context, userID string, id int64) (rows int64, err error)
		GetTransaction(ctx context.Context, userID string, id int64) (*core.Transaction, error)
		ListRecent(ctx context.Context, userID string, limit int) ([]core.TransactionListItem, error)
		ListByMonth(ctx context.Context, userID string, year, month int) ([]core.TransactionListItem, error)
		ListCashflowEntries(ctx context.Context, userID string, year int) ([]core.CashflowEntry, error)
		DistinctYears(ctx context.Context, userID string) ([]int, error)
	}

	// CategoryStore reads the shared, migration-seeded category taxonomy.
	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id int64) (*core.Category, error)
	}

	// EventPublisher emits transaction change events to interested
	// consumers. Publishing is best-effort; failures never fail the
	// originating request.
	EventPublisher interface {
		PublishTransactionEvent(ctx context.Context, action, userID string, id int64) error
	}
)
