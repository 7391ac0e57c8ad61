package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Notifier struct {
	mock.Mock
}

func (m *Notifier) Send(ctx context.Context, email string, payload string) error {
	args := m.Called(ctx, email, payload)
	return args.Error(0)
}
