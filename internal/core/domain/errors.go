package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthInvalid covers missing, unknown, and expired tokens alike.
	// Callers must re-authenticate; it is never retried transparently.
	ErrAuthInvalid = errors.New("invalid or expired session")

	// ErrInvalidLogin signals a malformed login request (missing username).
	ErrInvalidLogin = errors.New("invalid login request")

	// ErrItemNotFound signals an unknown item id.
	ErrItemNotFound = errors.New("item not found")

	// ErrUserNotFound signals an unknown username in the user directory.
	ErrUserNotFound = errors.New("user not found")

	// ErrClaimConflict is returned by repository adapters when a claim write
	// loses a compare-and-set against the stored holder.
	ErrClaimConflict = errors.New("claim state changed concurrently")
)

// AlreadyClaimedError reports a claim attempt on an item held by someone else.
// It carries the current holder so callers can render "claimed by X". This is
// an expected contention outcome, not an exceptional one.
type AlreadyClaimedError struct {
	ItemID int64
	Holder Identity
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("item %d already claimed by %s", e.ItemID, e.Holder.Username)
}
