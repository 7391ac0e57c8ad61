package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/accountd/internal/model"
)

const tokenByteLen = 32

var _ model.VerificationTokenStore = (*VerificationTokenRepository)(nil)

type VerificationTokenRepository struct {
	db DB
}

func NewVerificationTokenRepository(db DB) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

// Issue stores a fresh random token for the email. Issuing replaces any prior
// live token for that address: the email column is unique and the upsert
// rewrites the token and expiry in place.
func (r *VerificationTokenRepository) Issue(ctx context.Context, email string, ttl time.Duration) (string, error) {
	token, err := newTokenString()
	if err != nil {
		return "", err
	}

	const query = `
        INSERT INTO verification_tokens (token, email, expires_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
    `

	if _, err := r.db.Exec(ctx, query, token, email, time.Now().Add(ttl)); err != nil {
		return "", fmt.Errorf("failed to issue verification token: %w", err)
	}
	return token, nil
}

// Consume invalidates the token and returns the email it was issued for.
// Lookup and invalidation happen in one statement, so of two concurrent
// consumers exactly one gets the email and the other gets ErrTokenInvalid.
// An expired token is reported with ErrTokenExpired and left in place;
// only a successful consume removes a row.
func (r *VerificationTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	// Single clock read for the whole operation.
	now := time.Now()

	const consumeQuery = `
        DELETE FROM verification_tokens
        WHERE token = $1 AND expires_at > $2
        RETURNING email
    `

	var email string
	err := r.db.QueryRow(ctx, consumeQuery, token, now).Scan(&email)
	if err == nil {
		return email, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("failed to consume verification token: %w", err)
	}

	// Nothing was deleted: either the token never existed (or was already
	// consumed), or it exists but expired.
	const probeQuery = `SELECT expires_at FROM verification_tokens WHERE token = $1`

	var expiresAt time.Time
	err = r.db.QueryRow(ctx, probeQuery, token).Scan(&expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrTokenInvalid
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up verification token: %w", err)
	}

	return "", model.ErrTokenExpired
}

func newTokenString() (string, error) {
	buf := make([]byte, tokenByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
