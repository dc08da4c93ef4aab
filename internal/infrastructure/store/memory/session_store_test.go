package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

func TestSessionStore_IssueAndValidate(t *testing.T) {
	store := NewSessionStore(time.Hour)

	token, err := store.Issue(context.Background(), domain.Identity{Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	identity, err := store.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if identity.Username != "alice" || identity.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestSessionStore_TokensAreUnique(t *testing.T) {
	store := NewSessionStore(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := store.Issue(context.Background(), domain.Identity{Username: "alice"})
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token issued")
		}
		seen[token] = true
	}
}

func TestSessionStore_UnknownToken(t *testing.T) {
	store := NewSessionStore(time.Hour)

	if _, err := store.Validate(context.Background(), "no-such-token"); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid, got %v", err)
	}
}

func TestSessionStore_RevokeIsIdempotent(t *testing.T) {
	store := NewSessionStore(time.Hour)

	token, err := store.Issue(context.Background(), domain.Identity{Username: "bob"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if err := store.Revoke(context.Background(), token); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := store.Validate(context.Background(), token); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid after revoke, got %v", err)
	}

	// Second revoke and revoke of an unknown token are no-ops.
	if err := store.Revoke(context.Background(), token); err != nil {
		t.Fatalf("repeat revoke errored: %v", err)
	}
	if err := store.Revoke(context.Background(), "never-issued"); err != nil {
		t.Fatalf("revoke of unknown token errored: %v", err)
	}
}

func TestSessionStore_ExpiryPurges(t *testing.T) {
	store := NewSessionStore(time.Hour)

	now := time.Now()
	store.now = func() time.Time { return now }

	token, err := store.Issue(context.Background(), domain.Identity{Username: "carol"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Still valid one second before the deadline.
	now = now.Add(time.Hour - time.Second)
	if _, err := store.Validate(context.Background(), token); err != nil {
		t.Fatalf("validate before expiry failed: %v", err)
	}

	// Past the deadline: invalid, and the record is purged.
	now = now.Add(2 * time.Second)
	if _, err := store.Validate(context.Background(), token); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid after expiry, got %v", err)
	}

	store.mu.RLock()
	_, stillThere := store.sessions[token]
	store.mu.RUnlock()
	if stillThere {
		t.Fatalf("expected expired session to be purged")
	}

	// The purge is durable: the same validate fails again, not just once.
	if _, err := store.Validate(context.Background(), token); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid on repeat validate, got %v", err)
	}
}

func TestSessionStore_ValidationDoesNotExtendLifetime(t *testing.T) {
	store := NewSessionStore(time.Hour)

	now := time.Now()
	store.now = func() time.Time { return now }

	token, err := store.Issue(context.Background(), domain.Identity{Username: "dave"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Validate repeatedly right up to the deadline; none of these slides it.
	for i := 0; i < 5; i++ {
		now = now.Add(10 * time.Minute)
		if _, err := store.Validate(context.Background(), token); err != nil {
			t.Fatalf("validate at +%dm failed: %v", (i+1)*10, err)
		}
	}

	now = now.Add(11 * time.Minute) // past issued_at + 1h
	if _, err := store.Validate(context.Background(), token); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected fixed lifetime to be enforced, got %v", err)
	}
}

func TestSessionStore_ConcurrentValidationAndIssue(t *testing.T) {
	store := NewSessionStore(time.Hour)

	token, err := store.Issue(context.Background(), domain.Identity{Username: "erin"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := store.Validate(context.Background(), token); err != nil {
					t.Errorf("validate failed: %v", err)
					return
				}
				if _, err := store.Issue(context.Background(), domain.Identity{Username: "other"}); err != nil {
					t.Errorf("issue failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
