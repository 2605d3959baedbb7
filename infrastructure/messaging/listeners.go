package messaging

import (
	"context"

	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/domain/events"
	"github.com/aeroxkoki/sailing-sub005/pkg/observability"
)

// NewLoggingListener returns a handler that logs every domain event at
// info level. Subscribed by default so the event stream shows up in
// structured logs without any per-service wiring.
func NewLoggingListener(logger *zap.Logger) ports.EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ports.EventHandlerFunc(func(_ context.Context, event events.DomainEvent) error {
		logger.Info("domain event",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
			zap.Time("occurred_at", event.GetTimestamp()),
		)
		return nil
	})
}

// NewMetricsListener returns a handler that counts delivered events by
// type.
func NewMetricsListener(collector *observability.Collector) ports.EventHandler {
	return ports.EventHandlerFunc(func(_ context.Context, event events.DomainEvent) error {
		collector.EventsHandled.WithLabelValues(event.GetEventType()).Inc()
		return nil
	})
}
