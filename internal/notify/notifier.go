package notify

import "context"

// Notifier publishes a message about newly arrived feedback. The interface
// lets the delivery channel (log, email, chat) be swapped without touching
// the handlers.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}
