// Package memory provides the process-scoped store adapters used as the
// default backend. Stores are created at startup, passed by reference to the
// components that need them, and torn down with the process; nothing is
// ambient or global.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore keeps session records in a mutex-guarded map. Validations are
// read-locked and never block each other; only issue, revoke, and the lazy
// purge of an expired record take the write lock.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionStore) Issue(_ context.Context, identity domain.Identity) (string, error) {
	token, err := domain.NewSessionToken()
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	s.mu.Lock()
	s.sessions[token] = domain.Session{
		Token:     token,
		Identity:  identity,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.mu.Unlock()

	return token, nil
}

// Validate resolves token to its identity. An expired record is purged on
// the spot so the next validation of the same token is a plain miss.
// Validation never extends the session's lifetime.
func (s *SessionStore) Validate(_ context.Context, token string) (*domain.Identity, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrAuthInvalid
	}

	if sess.IsExpired(s.now()) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent revoke may have won.
		if current, ok := s.sessions[token]; ok && current.IsExpired(s.now()) {
			delete(s.sessions, token)
		}
		s.mu.Unlock()
		return nil, domain.ErrAuthInvalid
	}

	identity := sess.Identity
	return &identity, nil
}

// Revoke removes the session. Unknown tokens are a no-op, not an error.
func (s *SessionStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
