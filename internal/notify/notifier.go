package notify

import "context"

// Notifier is the outbound message channel. Sends are fire-and-forget from
// the booking core's point of view: failures are logged by callers, never
// propagated into booking outcomes.
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}
