package model

import "context"

// Notifier delivers out-of-band messages to users. Delivery is best-effort:
// callers ignore failures beyond logging them.
type Notifier interface {
	Send(ctx context.Context, email string, payload string) error
}
