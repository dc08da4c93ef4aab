package ports

import (
	"context"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

// ClaimCoordinator serializes claim transitions per item. It is the sole
// writer of Item.Claim.
type ClaimCoordinator interface {
	// AttemptClaim runs the per-item state machine:
	//   Free            → Held(requester), returns the claimed snapshot
	//   Held(requester) → Free (toggle-release), returns the freed snapshot
	//   Held(other)     → *domain.AlreadyClaimedError carrying the holder
	//   unknown id      → domain.ErrItemNotFound
	// Attempts on distinct items never block one another.
	AttemptClaim(ctx context.Context, itemID int64, requester domain.Identity) (*domain.Item, error)
	// ReleaseAllFor frees every item held by identity. Used on logout so a
	// closed session does not keep items pinned.
	ReleaseAllFor(ctx context.Context, identity domain.Identity) error
}
