package mocks

import "github.com/stretchr/testify/mock"

type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(password, encoded string) bool {
	args := m.Called(password, encoded)
	return args.Bool(0)
}
