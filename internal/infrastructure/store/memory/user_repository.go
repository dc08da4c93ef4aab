package memory

import (
	"context"
	"sync"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

// UserRepository is the in-memory user directory.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // keyed by username
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// Create stores the user. A concurrent create of the same username returns
// the record that won, so two racing first logins converge on one user.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.users[user.Username]; ok {
		clone := *existing
		return &clone, nil
	}
	clone := *user
	r.users[user.Username] = &clone
	out := clone
	return &out, nil
}
