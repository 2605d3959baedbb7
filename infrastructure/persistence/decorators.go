// Package persistence provides decorators that layer operational concerns
// over a DocumentStore without touching storage logic.
package persistence

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/pkg/observability"
)

// CircuitBreakerStore wraps a DocumentStore with a circuit breaker that
// opens after repeated persistence failures, shedding load from a broken
// filesystem instead of retrying every operation.
type CircuitBreakerStore struct {
	inner   ports.DocumentStore
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewCircuitBreakerStore creates a circuit breaker decorator
func NewCircuitBreakerStore(inner ports.DocumentStore, logger *zap.Logger) *CircuitBreakerStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        "document-store",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &CircuitBreakerStore{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

func (s *CircuitBreakerStore) execute(fn func() error) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// Save persists a document through the breaker
func (s *CircuitBreakerStore) Save(ctx context.Context, kind ports.Kind, id string, doc any) error {
	return s.execute(func() error {
		return s.inner.Save(ctx, kind, id, doc)
	})
}

// Load reads a document through the breaker
func (s *CircuitBreakerStore) Load(ctx context.Context, kind ports.Kind, id string, out any) error {
	return s.execute(func() error {
		return s.inner.Load(ctx, kind, id, out)
	})
}

// Delete removes a document through the breaker
func (s *CircuitBreakerStore) Delete(ctx context.Context, kind ports.Kind, id string) (bool, error) {
	var removed bool
	err := s.execute(func() error {
		var innerErr error
		removed, innerErr = s.inner.Delete(ctx, kind, id)
		return innerErr
	})
	return removed, err
}

// ListIDs lists document ids through the breaker
func (s *CircuitBreakerStore) ListIDs(ctx context.Context, kind ports.Kind) ([]string, error) {
	var ids []string
	err := s.execute(func() error {
		var innerErr error
		ids, innerErr = s.inner.ListIDs(ctx, kind)
		return innerErr
	})
	return ids, err
}

// SaveChild persists a per-parent document through the breaker
func (s *CircuitBreakerStore) SaveChild(ctx context.Context, kind ports.Kind, parentID, id string, doc any) error {
	return s.execute(func() error {
		return s.inner.SaveChild(ctx, kind, parentID, id, doc)
	})
}

// LoadChild reads a per-parent document through the breaker
func (s *CircuitBreakerStore) LoadChild(ctx context.Context, kind ports.Kind, parentID, id string, out any) error {
	return s.execute(func() error {
		return s.inner.LoadChild(ctx, kind, parentID, id, out)
	})
}

// DeleteChild removes a per-parent document through the breaker
func (s *CircuitBreakerStore) DeleteChild(ctx context.Context, kind ports.Kind, parentID, id string) (bool, error) {
	var removed bool
	err := s.execute(func() error {
		var innerErr error
		removed, innerErr = s.inner.DeleteChild(ctx, kind, parentID, id)
		return innerErr
	})
	return removed, err
}

// ListChildIDs lists per-parent document ids through the breaker
func (s *CircuitBreakerStore) ListChildIDs(ctx context.Context, kind ports.Kind, parentID string) ([]string, error) {
	var ids []string
	err := s.execute(func() error {
		var innerErr error
		ids, innerErr = s.inner.ListChildIDs(ctx, kind, parentID)
		return innerErr
	})
	return ids, err
}

// DeleteChildren removes a per-parent subtree through the breaker
func (s *CircuitBreakerStore) DeleteChildren(ctx context.Context, kind ports.Kind, parentID string) (int, error) {
	var removed int
	err := s.execute(func() error {
		var innerErr error
		removed, innerErr = s.inner.DeleteChildren(ctx, kind, parentID)
		return innerErr
	})
	return removed, err
}

// MetricsStore records operation counts and latency for every store call.
type MetricsStore struct {
	inner     ports.DocumentStore
	collector *observability.Collector
}

// NewMetricsStore creates a metrics decorator
func NewMetricsStore(inner ports.DocumentStore, collector *observability.Collector) *MetricsStore {
	return &MetricsStore{inner: inner, collector: collector}
}

func (s *MetricsStore) observe(op string, kind ports.Kind, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.collector.StoreOperations.With(prometheus.Labels{
		"operation": op,
		"kind":      string(kind),
		"status":    status,
	}).Inc()
	s.collector.StoreDuration.With(prometheus.Labels{
		"operation": op,
		"kind":      string(kind),
	}).Observe(time.Since(start).Seconds())
}

// Save persists a document and records metrics
func (s *MetricsStore) Save(ctx context.Context, kind ports.Kind, id string, doc any) error {
	start := time.Now()
	err := s.inner.Save(ctx, kind, id, doc)
	s.observe("save", kind, start, err)
	return err
}

// Load reads a document and records metrics
func (s *MetricsStore) Load(ctx context.Context, kind ports.Kind, id string, out any) error {
	start := time.Now()
	err := s.inner.Load(ctx, kind, id, out)
	s.observe("load", kind, start, err)
	return err
}

// Delete removes a document and records metrics
func (s *MetricsStore) Delete(ctx context.Context, kind ports.Kind, id string) (bool, error) {
	start := time.Now()
	removed, err := s.inner.Delete(ctx, kind, id)
	s.observe("delete", kind, start, err)
	return removed, err
}

// ListIDs lists document ids and records metrics
func (s *MetricsStore) ListIDs(ctx context.Context, kind ports.Kind) ([]string, error) {
	start := time.Now()
	ids, err := s.inner.ListIDs(ctx, kind)
	s.observe("list", kind, start, err)
	return ids, err
}

// SaveChild persists a per-parent document and records metrics
func (s *MetricsStore) SaveChild(ctx context.Context, kind ports.Kind, parentID, id string, doc any) error {
	start := time.Now()
	err := s.inner.SaveChild(ctx, kind, parentID, id, doc)
	s.observe("save_child", kind, start, err)
	return err
}

// LoadChild reads a per-parent document and records metrics
func (s *MetricsStore) LoadChild(ctx context.Context, kind ports.Kind, parentID, id string, out any) error {
	start := time.Now()
	err := s.inner.LoadChild(ctx, kind, parentID, id, out)
	s.observe("load_child", kind, start, err)
	return err
}

// DeleteChild removes a per-parent document and records metrics
func (s *MetricsStore) DeleteChild(ctx context.Context, kind ports.Kind, parentID, id string) (bool, error) {
	start := time.Now()
	removed, err := s.inner.DeleteChild(ctx, kind, parentID, id)
	s.observe("delete_child", kind, start, err)
	return removed, err
}

// ListChildIDs lists per-parent document ids and records metrics
func (s *MetricsStore) ListChildIDs(ctx context.Context, kind ports.Kind, parentID string) ([]string, error) {
	start := time.Now()
	ids, err := s.inner.ListChildIDs(ctx, kind, parentID)
	s.observe("list_children", kind, start, err)
	return ids, err
}

// DeleteChildren removes a per-parent subtree and records metrics
func (s *MetricsStore) DeleteChildren(ctx context.Context, kind ports.Kind, parentID string) (int, error) {
	start := time.Now()
	removed, err := s.inner.DeleteChildren(ctx, kind, parentID)
	s.observe("delete_children", kind, start, err)
	return removed, err
}

// TracedStore adds an OpenTelemetry span around every store call.
type TracedStore struct {
	inner  ports.DocumentStore
	tracer trace.Tracer
}

// NewTracedStore creates a tracing decorator
func NewTracedStore(inner ports.DocumentStore, tracer trace.Tracer) *TracedStore {
	return &TracedStore{inner: inner, tracer: tracer}
}

func (s *TracedStore) span(ctx context.Context, op string, kind ports.Kind, id string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "store."+op,
		trace.WithAttributes(
			attribute.String("store.kind", string(kind)),
			attribute.String("store.id", id),
		),
	)
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Save persists a document inside a span
func (s *TracedStore) Save(ctx context.Context, kind ports.Kind, id string, doc any) error {
	ctx, span := s.span(ctx, "save", kind, id)
	err := s.inner.Save(ctx, kind, id, doc)
	finishSpan(span, err)
	return err
}

// Load reads a document inside a span
func (s *TracedStore) Load(ctx context.Context, kind ports.Kind, id string, out any) error {
	ctx, span := s.span(ctx, "load", kind, id)
	err := s.inner.Load(ctx, kind, id, out)
	finishSpan(span, err)
	return err
}

// Delete removes a document inside a span
func (s *TracedStore) Delete(ctx context.Context, kind ports.Kind, id string) (bool, error) {
	ctx, span := s.span(ctx, "delete", kind, id)
	removed, err := s.inner.Delete(ctx, kind, id)
	finishSpan(span, err)
	return removed, err
}

// ListIDs lists document ids inside a span
func (s *TracedStore) ListIDs(ctx context.Context, kind ports.Kind) ([]string, error) {
	ctx, span := s.span(ctx, "list", kind, "")
	ids, err := s.inner.ListIDs(ctx, kind)
	finishSpan(span, err)
	return ids, err
}

// SaveChild persists a per-parent document inside a span
func (s *TracedStore) SaveChild(ctx context.Context, kind ports.Kind, parentID, id string, doc any) error {
	ctx, span := s.span(ctx, "save_child", kind, id)
	span.SetAttributes(attribute.String("store.parent_id", parentID))
	err := s.inner.SaveChild(ctx, kind, parentID, id, doc)
	finishSpan(span, err)
	return err
}

// LoadChild reads a per-parent document inside a span
func (s *TracedStore) LoadChild(ctx context.Context, kind ports.Kind, parentID, id string, out any) error {
	ctx, span := s.span(ctx, "load_child", kind, id)
	span.SetAttributes(attribute.String("store.parent_id", parentID))
	err := s.inner.LoadChild(ctx, kind, parentID, id, out)
	finishSpan(span, err)
	return err
}

// DeleteChild removes a per-parent document inside a span
func (s *TracedStore) DeleteChild(ctx context.Context, kind ports.Kind, parentID, id string) (bool, error) {
	ctx, span := s.span(ctx, "delete_child", kind, id)
	span.SetAttributes(attribute.String("store.parent_id", parentID))
	removed, err := s.inner.DeleteChild(ctx, kind, parentID, id)
	finishSpan(span, err)
	return removed, err
}

// ListChildIDs lists per-parent document ids inside a span
func (s *TracedStore) ListChildIDs(ctx context.Context, kind ports.Kind, parentID string) ([]string, error) {
	ctx, span := s.span(ctx, "list_children", kind, parentID)
	ids, err := s.inner.ListChildIDs(ctx, kind, parentID)
	finishSpan(span, err)
	return ids, err
}

// DeleteChildren removes a per-parent subtree inside a span
func (s *TracedStore) DeleteChildren(ctx context.Context, kind ports.Kind, parentID string) (int, error) {
	ctx, span := s.span(ctx, "delete_children", kind, parentID)
	removed, err := s.inner.DeleteChildren(ctx, kind, parentID)
	finishSpan(span, err)
	return removed, err
}
