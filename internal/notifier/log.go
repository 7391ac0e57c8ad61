package notifier

import (
	"context"

	"github.com/dtroode/accountd/internal/logger"
	"github.com/dtroode/accountd/internal/model"
)

var _ model.Notifier = (*Log)(nil)

// Log writes notifications to the application log instead of sending mail.
// Used in development when no relay is configured.
type Log struct {
	logger *logger.Logger
}

// NewLog creates a log-only notifier.
func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger.WithComponent("notifier")}
}

// Send logs the notification and always succeeds.
func (n *Log) Send(_ context.Context, email string, payload string) error {
	n.logger.Info("verification notification",
		"email", email,
		"payload", payload)
	return nil
}
