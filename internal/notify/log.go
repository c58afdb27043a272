package notify

import (
	"context"
	"log"
)

// LogNotifier writes notifications to the server log. It is the dev-mode
// fallback when no email credentials are configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Publish(ctx context.Context, message string) error {
	log.Printf("📨 [notify] %s", message)
	return nil
}
