package notification

import (
	"context"
	"log/slog"
)

const (
	// KindOTPCode indicates a one-time-code delivery for signup or login.
	KindOTPCode = "otp_code"
	// KindDonationReceived indicates a recorded donation event.
	KindDonationReceived = "donation_received"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications on an out-of-band channel. The auth
// orchestrator fires and forgets; delivery confirmation is not awaited.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier surfaces notifications on the structured logger. It
// stands in for a real SMS/email channel.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "destination", message.Destination, "body", message.Body)
	return nil
}
