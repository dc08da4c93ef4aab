package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

// CatalogRepository keeps catalog items in a mutex-guarded map. The internal
// lock only covers map access; per-item claim exclusion lives in the claim
// coordinator, which is the sole caller of SetClaim. All reads return deep
// copies, so returned snapshots never observe later transitions.
type CatalogRepository struct {
	mu    sync.RWMutex
	items map[int64]*domain.Item
	order []int64 // provisioning order, the tie-break for every sort
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{items: make(map[int64]*domain.Item)}
}

func (r *CatalogRepository) Insert(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("item %d already exists", item.ID)
	}
	r.items[item.ID] = item.Clone()
	r.order = append(r.order, item.ID)
	return nil
}

func (r *CatalogRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func (r *CatalogRepository) Get(_ context.Context, itemID int64) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item.Clone(), nil
}

// List snapshots the matching items in catalog order, then sorts the
// snapshot outside the lock. sort.SliceStable keeps catalog order for equal
// keys; prices compare as exact decimals.
func (r *CatalogRepository) List(_ context.Context, filter ports.ListItemsFilter) ([]*domain.Item, error) {
	search := strings.ToLower(filter.Search)

	r.mu.RLock()
	matched := make([]*domain.Item, 0, len(r.order))
	for _, id := range r.order {
		item := r.items[id]
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		matched = append(matched, item.Clone())
	}
	r.mu.RUnlock()

	sortItems(matched, filter.SortBy, filter.SortOrder)
	return matched, nil
}

func sortItems(items []*domain.Item, field domain.SortField, order domain.SortOrder) {
	if field == "" {
		return
	}
	desc := order == domain.SortDesc

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if desc {
			a, b = b, a
		}
		switch field {
		case domain.SortByPrice:
			return a.Price.Cmp(b.Price) < 0
		case domain.SortByStock:
			return a.Stock < b.Stock
		default:
			return a.Name < b.Name
		}
	})
}

// SetClaim writes the claim field iff the stored holder still matches
// expectedHolder. The coordinator's per-item lock makes the check redundant
// in-process; it stays as the adapter-level contract so every backend
// enforces the same compare-and-set.
func (r *CatalogRepository) SetClaim(_ context.Context, itemID int64, expectedHolder string, claim *domain.Claim) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}

	current := ""
	if item.Claim != nil {
		current = item.Claim.Holder.Username
	}
	if current != expectedHolder {
		return nil, domain.ErrClaimConflict
	}

	if claim == nil {
		item.Claim = nil
	} else {
		c := *claim
		item.Claim = &c
	}
	return item.Clone(), nil
}

func (r *CatalogRepository) ListClaimedBy(_ context.Context, username string) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []int64
	for _, id := range r.order {
		if r.items[id].HeldBy(username) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
