// internal/notify/emitter.go
package notify

import (
	"context"
	"log/slog"

	"campushub/internal/state"
)

// Dispatcher forwards reducer-derived outbound events to a channel.
// Failures are logged and swallowed: by the time an event reaches the
// dispatcher the underlying mutation has already committed, so there is
// nothing to roll back.
type Dispatcher struct {
	channel Channel
	logger  *slog.Logger
}

func NewDispatcher(channel Channel, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{channel: channel, logger: logger}
}

// Dispatch delivers each event over email when an address is known and SMS
// when a phone number is known. Matches the store's OnOutbound hook.
func (d *Dispatcher) Dispatch(ctx context.Context, events []state.Outbound) {
	for _, event := range events {
		if event.Email != "" {
			if err := d.channel.SendEmail(ctx, event.Email, event.Subject, event.Body); err != nil {
				d.logger.Error("email delivery failed", "kind", event.Kind, "recipient", event.Email, "error", err)
			}
		}
		if event.Phone != "" {
			if err := d.channel.SendSMS(ctx, event.Phone, event.Body); err != nil {
				d.logger.Error("sms delivery failed", "kind", event.Kind, "recipient", event.Phone, "error", err)
			}
		}
	}
}
