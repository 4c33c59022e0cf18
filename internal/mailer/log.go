package mailer

import (
	"context"
	"log/slog"
)

// LogSender is a sender implementation that logs messages and always succeeds.
// It is the default when no SMTP provider is configured, which keeps local
// development working without a mail account.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that writes outbound mail to the log.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Name returns the name of this sender.
func (s *LogSender) Name() string {
	return "log"
}

// Send logs the message details. The body is logged too because in this mode
// the log line is the only way to read the one-time code.
func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	s.logger.InfoContext(ctx, "log sender: email sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}
