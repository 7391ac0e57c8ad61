package model

// PasswordHasher produces one-way salted password hashes and verifies
// plaintext candidates against them.
//
// Verify never fails: a malformed or foreign hash simply does not match.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}
