package notify

import (
	"context"
	"log/slog"
)

// LogChannel writes messages to the log instead of delivering them. Used in
// development when no mail channel is configured, so the full message is
// still visible without an API key.
type LogChannel struct{}

// Send logs the message and reports success.
func (LogChannel) Send(_ context.Context, msg Message) error {
	slog.Info("mail channel not configured, logging message",
		"to", msg.To,
		"subject", msg.Subject,
		"bytes", len(msg.HTML),
	)
	return nil
}
