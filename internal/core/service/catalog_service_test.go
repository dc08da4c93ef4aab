package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

// flakyCatalogRepo fails the first failures calls to List/Get, then delegates.
type flakyCatalogRepo struct {
	*stubCatalogRepo
	failures int
	calls    int
	err      error
}

func (r *flakyCatalogRepo) List(ctx context.Context, f ports.ListItemsFilter) ([]*domain.Item, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, r.err
	}
	return r.stubCatalogRepo.List(ctx, f)
}

func (r *flakyCatalogRepo) Get(ctx context.Context, itemID int64) (*domain.Item, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, r.err
	}
	return r.stubCatalogRepo.Get(ctx, itemID)
}

func TestCatalogService_RetriesTransientReads(t *testing.T) {
	repo := &flakyCatalogRepo{
		stubCatalogRepo: newStubCatalogRepo(1, 2),
		failures:        2,
		err:             errors.New("connection reset"),
	}
	svc := NewCatalogService(repo, zerolog.Nop())

	items, err := svc.ListItems(context.Background(), ports.ListItemsFilter{})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if repo.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", repo.calls)
	}
}

func TestCatalogService_BoundedRetry(t *testing.T) {
	transient := errors.New("i/o timeout")
	repo := &flakyCatalogRepo{
		stubCatalogRepo: newStubCatalogRepo(1),
		failures:        100,
		err:             transient,
	}
	svc := NewCatalogService(repo, zerolog.Nop())

	_, err := svc.ListItems(context.Background(), ports.ListItemsFilter{})
	if !errors.Is(err, transient) {
		t.Fatalf("expected transient error surfaced, got %v", err)
	}
	if repo.calls != readRetryAttempts {
		t.Fatalf("expected %d attempts, got %d", readRetryAttempts, repo.calls)
	}
}

func TestCatalogService_NotFoundIsFinal(t *testing.T) {
	repo := &flakyCatalogRepo{stubCatalogRepo: newStubCatalogRepo(1)}
	svc := NewCatalogService(repo, zerolog.Nop())

	_, err := svc.GetItem(context.Background(), 99)
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("not-found must not be retried, got %d attempts", repo.calls)
	}
}
