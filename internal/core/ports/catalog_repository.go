package ports

import (
	"context"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

// ListItemsFilter carries all query parameters for listing catalog items.
type ListItemsFilter struct {
	Search    string           // optional: case-insensitive substring match on name
	SortBy    domain.SortField // optional: name, price or stock; empty = catalog order
	SortOrder domain.SortOrder // optional: asc (default) or desc
}

// CatalogRepository answers catalog reads and performs the guarded claim
// write on behalf of the claim coordinator. Results are immutable snapshots;
// claims landing after a snapshot was taken are not reflected in it.
type CatalogRepository interface {
	// List returns matching items. Sort is stable: equal keys keep catalog
	// (ascending id) order.
	List(ctx context.Context, filter ListItemsFilter) ([]*domain.Item, error)
	// Get returns a single item snapshot or domain.ErrItemNotFound.
	Get(ctx context.Context, itemID int64) (*domain.Item, error)
	// SetClaim writes the claim field iff the stored holder still matches
	// expectedHolder ("" = expected free). claim == nil clears the field.
	// Returns the updated snapshot, domain.ErrItemNotFound for unknown ids,
	// or domain.ErrClaimConflict when the compare-and-set loses.
	SetClaim(ctx context.Context, itemID int64, expectedHolder string, claim *domain.Claim) (*domain.Item, error)
	// ListClaimedBy returns the ids of all items currently held by username.
	ListClaimedBy(ctx context.Context, username string) ([]int64, error)
	// Insert adds an item during provisioning. Count supports seed-once logic.
	Insert(ctx context.Context, item *domain.Item) error
	Count(ctx context.Context) (int64, error)
}
