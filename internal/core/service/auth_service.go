package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dibsly/dibs-api/internal/api/metrics"
	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

// AuthService implements login and logout. Login is deliberately
// credential-free: any non-empty username gets a user record on first sight
// and a fresh session token. Logout revokes the token and releases every
// claim the session still holds, so an abandoned login cannot pin an item.
type AuthService struct {
	sessions ports.SessionStore
	users    ports.UserRepository
	claims   ports.ClaimCoordinator
	log      zerolog.Logger
}

func NewAuthService(sessions ports.SessionStore, users ports.UserRepository, claims ports.ClaimCoordinator, log zerolog.Logger) *AuthService {
	return &AuthService{sessions: sessions, users: users, claims: claims, log: log}
}

// Login resolves or creates the user, then issues a session token.
// An empty email defaults to the username.
func (s *AuthService) Login(ctx context.Context, username, email string) (*ports.LoginResult, error) {
	if username == "" {
		return nil, domain.ErrInvalidLogin
	}
	if email == "" {
		email = username
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.users.Create(ctx, &domain.User{
			ID:        uuid.New(),
			Username:  username,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("login: resolve user: %w", err)
	}

	identity := domain.Identity{Username: user.Username, Email: user.Email}
	token, err := s.sessions.Issue(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("login: issue session: %w", err)
	}

	metrics.SessionsIssuedTotal.Inc()
	s.log.Info().Str("username", username).Msg("session issued")

	return &ports.LoginResult{Token: token, Identity: identity}, nil
}

// Logout revokes the session and frees the caller's claims. Revoke is
// idempotent, so a token that already expired still logs out cleanly.
func (s *AuthService) Logout(ctx context.Context, token string, identity domain.Identity) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return fmt.Errorf("logout: revoke session: %w", err)
	}
	metrics.SessionsRevokedTotal.Inc()

	if err := s.claims.ReleaseAllFor(ctx, identity); err != nil {
		// The session is already gone; a failed release is logged, not fatal.
		s.log.Warn().Err(err).Str("username", identity.Username).Msg("failed to release claims on logout")
	}

	s.log.Info().Str("username", identity.Username).Msg("session revoked")
	return nil
}
