package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps session records in Redis, one key per token. The fixed
// session lifetime maps directly onto the key TTL, so expiry-purge is
// enforced server-side and Validate sees expired tokens as plain misses.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

type sessionRecord struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) Issue(ctx context.Context, identity domain.Identity) (string, error) {
	token, err := domain.NewSessionToken()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	payload, err := json.Marshal(sessionRecord{
		Username:  identity.Username,
		Email:     identity.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	})
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session set: %w", err)
	}
	return token, nil
}

func (s *SessionStore) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrAuthInvalid
	}
	if err != nil {
		// Unreachable store is never treated as valid.
		return nil, fmt.Errorf("session get: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}

	// Redis expires the key itself; the stored deadline is re-checked so a
	// key surviving past its lifetime still fails and gets purged.
	if time.Now().After(rec.ExpiresAt) {
		_ = s.client.Del(ctx, s.key(token)).Err()
		return nil, domain.ErrAuthInvalid
	}

	return &domain.Identity{Username: rec.Username, Email: rec.Email}, nil
}

func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	// DEL of a missing key is a no-op, which matches revoke's idempotency.
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionStore) key(token string) string {
	return sessionKeyPrefix + token
}
