package services

import (
	"context"
	"errors"
	"testing"

	"github.com/oscarlagatta/next-cash/internal/core"
)

var testCategories = &fakeCategories{cats: []core.Category{
	{ID: 1, Name: "Salary", Type: core.CategoryIncome},
	{ID: 4, Name: "Housing", Type: core.CategoryExpense},
}}

func goodDraft() core.TransactionDraft {
	return core.TransactionDraft{
		Amount:      core.Money{Cents: 1234},
		Description: "weekly shop",
		CategoryID:  4,
		Date:        core.NewDate(2025, 6, 1),
	}
}

func newMutationService(store *fakeStore, events *fakeEvents) *TransactionService {
	svc := NewTransactionService(store, testCategories, events)
	svc.now = fixedNow(2025)
	return svc
}

func TestCreateUnauthorized(t *testing.T) {
	store := &fakeStore{err: errors.New("store must not be touched")}
	svc := newMutationService(store, nil)

	_, err := svc.Create(context.Background(), "", goodDraft())
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err.Error() != "Unauthorized" {
		t.Fatalf("message = %q", err.Error())
	}
	if len(store.inserted) != 0 {
		t.Fatalf("store was touched: %+v", store.inserted)
	}
}

func TestCreateValidationShortCircuits(t *testing.T) {
	store := &fakeStore{}
	svc := newMutationService(store, nil)

	d := goodDraft()
	d.Amount = core.Money{Cents: 0}
	_, err := svc.Create(context.Background(), "user-a", d)
	ve, ok := core.AsValidationError(err)
	if !ok || ve.Message != "Amount must be greater than 0" {
		t.Fatalf("expected amount rule, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("validation failure must not reach storage")
	}
}

func TestCreateUnresolvableCategory(t *testing.T) {
	store := &fakeStore{}
	svc := newMutationService(store, nil)

	d := goodDraft()
	d.CategoryID = 777 // positive but unknown
	_, err := svc.Create(context.Background(), "user-a", d)
	ve, ok := core.AsValidationError(err)
	if !ok || ve.Message != "Category ID is invalid" {
		t.Fatalf("expected category message, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("unresolvable category must not reach storage")
	}
}

func TestCreateSuccess(t *testing.T) {
	store := &fakeStore{insertID: 42}
	events := &fakeEvents{}
	svc := newMutationService(store, events)

	id, err := svc.Create(context.Background(), "user-a", goodDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Fatalf("id = %d", id)
	}
	if len(store.inserted) != 1 || store.inserted[0].UserID != "user-a" {
		t.Fatalf("inserted = %+v", store.inserted)
	}
	if len(events.published) != 1 || events.published[0] != "created" {
		t.Fatalf("events = %v", events.published)
	}
}

func TestCreateSurvivesEventFailure(t *testing.T) {
	store := &fakeStore{insertID: 7}
	svc := newMutationService(store, &fakeEvents{fail: true})

	id, err := svc.Create(context.Background(), "user-a", goodDraft())
	if err != nil || id != 7 {
		t.Fatalf("publish failure leaked into result: id=%d err=%v", id, err)
	}
}

func TestUpdateZeroRowsIsSilent(t *testing.T) {
	// foreign or nonexistent id: the store reports zero rows and the
	// caller cannot tell which case it was
	store := &fakeStore{updateRows: 0}
	events := &fakeEvents{}
	svc := newMutationService(store, events)

	err := svc.Update(context.Background(), "user-a", 9999, goodDraft())
	if err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if store.updateCalls != 1 {
		t.Fatalf("update calls = %d", store.updateCalls)
	}
	if len(events.published) != 0 {
		t.Fatalf("no-op must not publish events: %v", events.published)
	}
}

func TestUpdateSuccessPublishes(t *testing.T) {
	store := &fakeStore{updateRows: 1}
	events := &fakeEvents{}
	svc := newMutationService(store, events)

	if err := svc.Update(context.Background(), "user-a", 3, goodDraft()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.published) != 1 || events.published[0] != "updated" {
		t.Fatalf("events = %v", events.published)
	}
}

func TestUpdateUnauthorized(t *testing.T) {
	store := &fakeStore{}
	svc := newMutationService(store, nil)

	err := svc.Update(context.Background(), "", 3, goodDraft())
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.updateCalls != 0 {
		t.Fatalf("store was touched")
	}
}

func TestDeleteUnauthorized(t *testing.T) {
	store := &fakeStore{}
	svc := newMutationService(store, nil)

	err := svc.Delete(context.Background(), "", 3)
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.deleteCalls != 0 {
		t.Fatalf("store was touched")
	}
}

func TestDeleteZeroRowsIsSilent(t *testing.T) {
	store := &fakeStore{deleteRows: 0}
	events := &fakeEvents{}
	svc := newMutationService(store, events)

	if err := svc.Delete(context.Background(), "user-a", 12); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(events.published) != 0 {
		t.Fatalf("no-op must not publish events: %v", events.published)
	}
}

func TestDeleteSuccessPublishes(t *testing.T) {
	store := &fakeStore{deleteRows: 1}
	events := &fakeEvents{}
	svc := newMutationService(store, events)

	if err := svc.Delete(context.Background(), "user-a", 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.published) != 1 || events.published[0] != "deleted" {
		t.Fatalf("events = %v", events.published)
	}
}

func TestStoreErrorPropagates(t *testing.T) {
	store := &fakeStore{err: errors.New("database is locked")}
	svc := newMutationService(store, nil)

	if err := svc.Delete(context.Background(), "user-a", 1); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}
