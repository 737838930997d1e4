// Package session provides the injected authentication capability:
// resolving an opaque session token to a user id. Token issuance and
// cryptography belong to the external identity provider; this package
// only stores and validates the resulting sessions.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is the stored view of one session.
type Record struct {
	UserID    uuid.UUID `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store validates session tokens. Validate fails with
// SESSION_NOT_FOUND for unknown tokens and SESSION_EXPIRED for
// known-but-stale ones.
type Store interface {
	Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Validate(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}
