package model

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when an account with the same email already exists.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid is returned when a verification token does not exist
	// or has already been consumed.
	ErrTokenInvalid = errors.New("verification token invalid")

	// ErrTokenExpired is returned when a verification token exists but is
	// past its expiry.
	ErrTokenExpired = errors.New("verification token expired")
)
