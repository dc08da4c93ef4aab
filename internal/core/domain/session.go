package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Identity is the displayable owner of a session and of any claims it holds.
type Identity struct {
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
}

// Session is an issued credential record. Sessions have a fixed lifetime:
// validation never extends ExpiresAt.
type Session struct {
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is past its lifetime at the given instant.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// User is a directory record created on first login.
type User struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewSessionToken returns a 256-bit random token, hex encoded. The token is an
// opaque lookup key; it carries no parseable claims.
func NewSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
