// Package notifier delivers verification messages to users. Delivery is
// best-effort: the caller logs and ignores failures.
package notifier

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/dtroode/accountd/internal/model"
)

var _ model.Notifier = (*SMTP)(nil)

// SMTP sends verification messages through a mail relay.
type SMTP struct {
	addr string
	from string
}

// NewSMTP creates an SMTP notifier pointed at host:port.
func NewSMTP(host, port, from string) *SMTP {
	return &SMTP{
		addr: net.JoinHostPort(host, port),
		from: from,
	}
}

// Send delivers the verification token to the email address.
func (n *SMTP) Send(_ context.Context, email string, payload string) error {
	if err := smtp.SendMail(n.addr, nil, n.from, []string{email}, buildMessage(n.from, email, payload)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func buildMessage(from, to, token string) []byte {
	return fmt.Appendf(nil,
		"From: %s\r\nTo: %s\r\nSubject: Verify your email address\r\n\r\nUse this token to verify your email address: %s\r\n",
		from, to, token)
}
