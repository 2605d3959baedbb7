package ports

import (
	"context"

	"github.com/aeroxkoki/sailing-sub005/domain/events"
)

// EventBus distributes domain events to in-process listeners after the
// originating mutation has been persisted. Dispatch is synchronous;
// listener failures are logged by the bus, never propagated to the
// caller.
type EventBus interface {
	// Publish delivers events to all subscribed handlers
	Publish(ctx context.Context, evts ...events.DomainEvent)

	// Subscribe registers a handler for every published event
	Subscribe(handler EventHandler)
}

// EventHandler consumes a single domain event
type EventHandler interface {
	// HandleEvent processes one event; errors are logged by the bus
	HandleEvent(ctx context.Context, event events.DomainEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface
type EventHandlerFunc func(ctx context.Context, event events.DomainEvent) error

// HandleEvent calls the wrapped function
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event events.DomainEvent) error {
	return f(ctx, event)
}
