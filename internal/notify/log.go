package notify

import (
	"context"
	"log/slog"
)

// LogNotifier records notifications to the log instead of sending them.
// Used when no SMTP server is configured (local development).
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Send logs the notification and reports success.
func (n *LogNotifier) Send(_ context.Context, recipients []string, subject, _ string) error {
	n.logger.Info("notification (log only)", "recipients", recipients, "subject", subject)
	return nil
}
