package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// EmailNotifier delivers feedback notifications to the team inbox via the
// Resend API.
type EmailNotifier struct {
	client *resend.Client
	from   string
	to     string
}

func NewEmailNotifier(apiKey, from, to string) *EmailNotifier {
	return &EmailNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (n *EmailNotifier) Publish(ctx context.Context, message string) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: "New feedback received",
		Text:    message,
	}
	if _, err := n.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}
