// Package email delivers organiser notifications.
package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing message.
type SendRequest struct {
	To      []string
	From    string // empty means the sender's default address
	Subject string
	HTML    string
}

// SendResult is what the provider returned for an accepted message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers a message through some provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
