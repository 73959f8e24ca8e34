package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oscarlagatta/next-cash/internal/core"
)

// TransactionService performs validated, user-scoped mutations against
// the transaction store and publishes change events.
type TransactionService struct {
	store      TransactionStore
	categories CategoryStore
	events     EventPublisher
	now        func() time.Time
}

func NewTransactionService(store TransactionStore, categories CategoryStore, events EventPublisher) *TransactionService {
	return &TransactionService{
		store:      store,
		categories: categories,
		events:     events,
		now:        time.Now,
	}
}

// Create validates the draft and stores a new transaction, returning the
// assigned id. An empty userID fails with core.ErrUnauthorized before
// any storage access.
func (s *TransactionService) Create(ctx context.Context, userID string, d core.TransactionDraft) (int64, error) {
	if userID == "" {
		return 0, core.ErrUnauthorized
	}
	if err := d.ValidateAt(s.now()); err != nil {
		return 0, err
	}
	if err := s.resolveCategory(ctx, d.CategoryID); err != nil {
		return 0, err
	}

	id, err := s.store.InsertTransaction(ctx, core.Transaction{
		UserID:      userID,
		CategoryID:  d.CategoryID,
		Amount:      d.Amount,
		Description: d.Description,
		Date:        d.Date,
	})
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, "created", userID, id)
	return id, nil
}

// Update validates the draft and applies it to the transaction matching
// both id and userID. A row owned by another user, or no row at all,
// affects nothing and is not an error; the two cases are deliberately
// indistinguishable to the caller.
func (s *TransactionService) Update(ctx context.Context, userID string, id int64, d core.TransactionDraft) error {
	if userID == "" {
		return core.ErrUnauthorized
	}
	if err := d.ValidateAt(s.now()); err != nil {
		return err
	}
	if err := s.resolveCategory(ctx, d.CategoryID); err != nil {
		return err
	}

	rows, err := s.store.UpdateTransaction(ctx, userID, id, d)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", id, err)
	}
	if rows > 0 {
		s.publish(ctx, "updated", userID, id)
	}
	return nil
}

// Delete permanently removes the transaction matching both id and
// userID. Zero affected rows is not an error.
func (s *TransactionService) Delete(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return core.ErrUnauthorized
	}

	rows, err := s.store.DeleteTransaction(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if rows > 0 {
		s.publish(ctx, "deleted", userID, id)
	}
	return nil
}

// resolveCategory confirms the referenced category exists. The chain has
// already rejected non-positive ids; an unresolvable id reports the same
// message as the chain's categoryId rule.
func (s *TransactionService) resolveCategory(ctx context.Context, id int64) error {
	cat, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve category %d: %w", id, err)
	}
	if cat == nil {
		return &core.ValidationError{Field: "categoryId", Message: "Category ID is invalid"}
	}
	return nil
}

func (s *TransactionService) publish(ctx context.Context, action, userID string, id int64) {
	if s.events == nil {
		slog.DebugContext(ctx, "Event publisher not available, skipping event",
			"action", action, "id", id)
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, action, userID, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", action, "id", id, "error", err)
		// Don't fail the request - the mutation is already durable
	}
}
