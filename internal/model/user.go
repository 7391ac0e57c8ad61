package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for user accounts.
//
// Create relies on the storage-level unique constraint on email and returns
// ErrEmailTaken on a violation, so concurrent registrations with the same
// email can never produce two accounts.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

// User represents a stored account.
//
// Email is unique. The service lower-cases emails before storage and lookup,
// so uniqueness is case-insensitive by policy. Accounts are never mutated or
// deleted by this service.
type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PasswordHash string
	AvatarURL    *string
	CreatedAt    time.Time
}
