package ports

import (
	"context"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

// UserRepository is the directory of known users. Login is get-or-create:
// an unseen username becomes a user on first successful login.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
