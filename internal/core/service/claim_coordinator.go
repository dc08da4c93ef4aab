package service

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dibsly/dibs-api/internal/api/metrics"
	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

// ClaimCoordinator serializes claim transitions with one mutex per item id,
// so attempts on distinct items proceed in parallel while attempts on the
// same item are linearized. It is the sole writer of Item.Claim; the catalog
// repository only executes the guarded write it is handed.
type ClaimCoordinator struct {
	repo  ports.CatalogRepository
	locks sync.Map // item id (int64) → *sync.Mutex
	log   zerolog.Logger
}

// NewClaimCoordinator returns a coordinator over the given catalog repository.
func NewClaimCoordinator(repo ports.CatalogRepository, log zerolog.Logger) *ClaimCoordinator {
	return &ClaimCoordinator{repo: repo, log: log}
}

// itemLock returns the mutex for itemID, creating it on first use. Locks are
// never removed: the catalog is long-lived and a stale entry is one mutex.
func (c *ClaimCoordinator) itemLock(itemID int64) *sync.Mutex {
	if mu, ok := c.locks.Load(itemID); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := c.locks.LoadOrStore(itemID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// AttemptClaim runs the per-item state machine under the item's lock:
// Free → Held(requester), Held(requester) → Free, Held(other) → conflict.
// The requester identity is resolved by the caller before entry; nothing but
// the item's own read and write happens under the lock.
func (c *ClaimCoordinator) AttemptClaim(ctx context.Context, itemID int64, requester domain.Identity) (*domain.Item, error) {
	timer := prometheus.NewTimer(metrics.ClaimDuration)
	defer timer.ObserveDuration()

	// A transition that has started must finish even if the client hangs up:
	// an aborted write mid-toggle would leave the claim state undefined.
	ctx = context.WithoutCancel(ctx)

	mu := c.itemLock(itemID)
	mu.Lock()
	defer mu.Unlock()

	item, err := c.repo.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			metrics.ClaimAttemptsTotal.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	switch {
	case item.Claim == nil:
		updated, err := c.repo.SetClaim(ctx, itemID, "", &domain.Claim{Holder: requester})
		if err != nil {
			return nil, err
		}
		metrics.ClaimAttemptsTotal.WithLabelValues("granted").Inc()
		c.log.Info().
			Int64("item_id", itemID).
			Str("holder", requester.Username).
			Msg("claim granted")
		return updated, nil

	case item.HeldBy(requester.Username):
		updated, err := c.repo.SetClaim(ctx, itemID, requester.Username, nil)
		if err != nil {
			return nil, err
		}
		metrics.ClaimAttemptsTotal.WithLabelValues("released").Inc()
		c.log.Info().
			Int64("item_id", itemID).
			Str("holder", requester.Username).
			Msg("claim released by toggle")
		return updated, nil

	default:
		// Expected contention, not an error condition worth more than debug.
		metrics.ClaimAttemptsTotal.WithLabelValues("conflict").Inc()
		c.log.Debug().
			Int64("item_id", itemID).
			Str("holder", item.Claim.Holder.Username).
			Str("requester", requester.Username).
			Msg("claim attempt on held item")
		return nil, &domain.AlreadyClaimedError{ItemID: itemID, Holder: item.Claim.Holder}
	}
}

// ReleaseAllFor frees every item currently held by identity. Each release
// takes that item's lock individually, so an unrelated in-flight claim on
// another item is never blocked. Items the identity lost between the listing
// and the release are skipped silently.
func (c *ClaimCoordinator) ReleaseAllFor(ctx context.Context, identity domain.Identity) error {
	ctx = context.WithoutCancel(ctx)

	ids, err := c.repo.ListClaimedBy(ctx, identity.Username)
	if err != nil {
		return err
	}

	for _, id := range ids {
		mu := c.itemLock(id)
		mu.Lock()
		_, err := c.repo.SetClaim(ctx, id, identity.Username, nil)
		mu.Unlock()
		if err != nil && !errors.Is(err, domain.ErrClaimConflict) && !errors.Is(err, domain.ErrItemNotFound) {
			return err
		}
		if err == nil {
			metrics.ClaimAttemptsTotal.WithLabelValues("released").Inc()
		}
	}

	if len(ids) > 0 {
		c.log.Info().
			Str("holder", identity.Username).
			Int("items", len(ids)).
			Msg("released all claims for session owner")
	}
	return nil
}
