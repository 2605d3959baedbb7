// Package messaging delivers domain events to in-process subscribers.
package messaging

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/domain/events"
)

// Bus is a synchronous in-process event bus. Handlers run in subscription
// order on the publisher's goroutine; a failing handler is logged and the
// remaining handlers still run.
type Bus struct {
	mu       sync.RWMutex
	handlers []ports.EventHandler
	logger   *zap.Logger
}

// NewBus creates an event bus
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{logger: logger}
}

// Subscribe registers a handler for every published event
func (b *Bus) Subscribe(handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish delivers events to all subscribed handlers
func (b *Bus) Publish(ctx context.Context, evts ...events.DomainEvent) {
	b.mu.RLock()
	handlers := make([]ports.EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, event := range evts {
		b.logger.Debug("publishing domain event",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
		)
		for _, handler := range handlers {
			if err := handler.HandleEvent(ctx, event); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", event.GetEventType()),
					zap.String("aggregate_id", event.GetAggregateID()),
					zap.Error(err),
				)
			}
		}
	}
}
