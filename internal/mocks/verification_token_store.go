package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type VerificationTokenStore struct {
	mock.Mock
}

func (m *VerificationTokenStore) Issue(ctx context.Context, email string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, email, ttl)
	return args.String(0), args.Error(1)
}

func (m *VerificationTokenStore) Consume(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
