package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

const (
	readRetryAttempts = 3
	readRetryDelay    = 50 * time.Millisecond
)

// CatalogService serves catalog reads with a bounded retry on transient
// storage errors. Only reads retry; claim mutations go through the
// coordinator and are never retried (a replayed toggle could release a claim
// the caller just won).
type CatalogService struct {
	repo ports.CatalogRepository
	log  zerolog.Logger
}

func NewCatalogService(repo ports.CatalogRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

func (s *CatalogService) ListItems(ctx context.Context, filter ports.ListItemsFilter) ([]*domain.Item, error) {
	var items []*domain.Item
	err := s.retryRead(ctx, "list items", func() error {
		var err error
		items, err = s.repo.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *CatalogService) GetItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	var item *domain.Item
	err := s.retryRead(ctx, "get item", func() error {
		var err error
		item, err = s.repo.Get(ctx, itemID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get item %d: %w", itemID, err)
	}
	return item, nil
}

// retryRead runs op up to readRetryAttempts times. Domain errors are final;
// anything else is treated as a transient storage blip.
func (s *CatalogService) retryRead(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= readRetryAttempts; attempt++ {
		err = fn()
		if err == nil || errors.Is(err, domain.ErrItemNotFound) {
			return err
		}
		if attempt == readRetryAttempts {
			break
		}
		s.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("transient read failure, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readRetryDelay):
		}
	}
	return err
}
