package ports

import (
	"context"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string
	Identity domain.Identity
}

// AuthService implements the session lifecycle: login issues a token,
// logout revokes it and releases every claim the session still holds.
type AuthService interface {
	Login(ctx context.Context, username, email string) (*LoginResult, error)
	Logout(ctx context.Context, token string, identity domain.Identity) error
}
