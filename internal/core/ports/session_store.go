package ports

import (
	"context"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

// SessionStore owns session records: it is the only component allowed to
// create or delete them.
type SessionStore interface {
	// Issue stores a new fixed-lifetime session for identity and returns its
	// opaque token.
	Issue(ctx context.Context, identity domain.Identity) (string, error)
	// Validate resolves a token to its identity. Unknown and expired tokens
	// both yield domain.ErrAuthInvalid; an expired record is purged so the
	// next lookup is a plain miss. Validation never extends the lifetime.
	Validate(ctx context.Context, token string) (*domain.Identity, error)
	// Revoke removes a session. Revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string) error
}
