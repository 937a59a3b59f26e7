package messaging

import (
	"context"
	"log/slog"
)

// LogPublisher surfaces events on the structured log. It is the default
// publisher when no broker is configured, so user-facing signals such as
// "item added" are never silently dropped.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := event.Payload()
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "Event published", "subject", event.Subject(), "payload", string(payload))
	return nil
}
