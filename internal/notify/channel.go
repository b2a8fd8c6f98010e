// internal/notify/channel.go
package notify

import (
	"context"
	"log/slog"
)

// Channel is an external delivery mechanism. Implementations return an
// error instead of panicking; the dispatcher treats every send as
// best-effort.
type Channel interface {
	SendEmail(ctx context.Context, recipient, subject, body string) error
	SendSMS(ctx context.Context, recipient, body string) error
}

// LogChannel records delivery intent without delivering anything. It stands
// in for the real email/SMS gateways.
type LogChannel struct {
	logger *slog.Logger
}

func NewLogChannel(logger *slog.Logger) *LogChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogChannel{logger: logger}
}

func (c *LogChannel) SendEmail(_ context.Context, recipient, subject, body string) error {
	c.logger.Info("email queued", "recipient", recipient, "subject", subject, "bytes", len(body))
	return nil
}

func (c *LogChannel) SendSMS(_ context.Context, recipient, body string) error {
	c.logger.Info("sms queued", "recipient", recipient, "bytes", len(body))
	return nil
}
