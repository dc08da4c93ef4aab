package ports

import (
	"context"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

// CatalogService serves catalog reads. Reads may be retried internally on
// transient storage errors; results are snapshots.
type CatalogService interface {
	ListItems(ctx context.Context, filter ListItemsFilter) ([]*domain.Item, error)
	GetItem(ctx context.Context, itemID int64) (*domain.Item, error)
}
