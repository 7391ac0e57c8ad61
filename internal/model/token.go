package model

import "github.com/google/uuid"

// TokenManager issues and validates signed session tokens.
//
// Session tokens are stateless: validity is determined entirely by the
// signature and the embedded expiry, nothing is stored server-side.
type TokenManager interface {
	GenerateSessionToken(userID uuid.UUID) (string, error)
	ParseSessionToken(token string) (uuid.UUID, error)
}
