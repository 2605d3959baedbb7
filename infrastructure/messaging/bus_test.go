package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/domain/events"
)

func TestBus_PublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus(zap.NewNop())
	var order []string

	bus.Subscribe(ports.EventHandlerFunc(func(ctx context.Context, event events.DomainEvent) error {
		order = append(order, "first")
		return nil
	}))
	bus.Subscribe(ports.EventHandlerFunc(func(ctx context.Context, event events.DomainEvent) error {
		order = append(order, "second")
		return nil
	}))

	bus.Publish(context.Background(), events.NewSessionDeleted("s1", time.Now()))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_FailingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop())
	delivered := false

	bus.Subscribe(ports.EventHandlerFunc(func(ctx context.Context, event events.DomainEvent) error {
		return errors.New("handler failure")
	}))
	bus.Subscribe(ports.EventHandlerFunc(func(ctx context.Context, event events.DomainEvent) error {
		delivered = true
		return nil
	}))

	bus.Publish(context.Background(), events.NewSessionDeleted("s1", time.Now()))

	assert.True(t, delivered)
}

func TestBus_PublishWithoutSubscribersIsANoOp(t *testing.T) {
	bus := NewBus(nil)

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), events.NewSessionDeleted("s1", time.Now()))
	})
}
