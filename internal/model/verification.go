package model

import (
	"context"
	"time"
)

// VerificationTokenStore persists single-use email verification tokens.
//
// At most one live token exists per email: Issue replaces any prior token for
// the same address. Consume atomically looks up and invalidates a token, so
// of two concurrent consumers exactly one succeeds and the other observes
// ErrTokenInvalid. An expired token is never treated as valid: Consume
// reports it with ErrTokenExpired and leaves the row in place until a
// reissue for the same email replaces it.
type VerificationTokenStore interface {
	Issue(ctx context.Context, email string, ttl time.Duration) (string, error)
	Consume(ctx context.Context, token string) (string, error)
}

// VerificationToken describes a stored email verification token. The token
// string itself is the identity.
type VerificationToken struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}
