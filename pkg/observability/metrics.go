package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Global collector instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the store
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Store metrics
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec

	// Business metrics
	SessionsCreated  prometheus.Counter
	SessionsDeleted  prometheus.Counter
	ProjectsCreated  prometheus.Counter
	ProjectsDeleted  prometheus.Counter
	SearchesExecuted prometheus.Counter
	EventsHandled    *prometheus.CounterVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Index metrics
	TagIndexSize     prometheus.Gauge
	KeywordIndexSize prometheus.Gauge
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Use singleton pattern to avoid duplicate registration in tests
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	storeOperations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of document store operations",
		},
		[]string{"operation", "kind", "status"},
	)

	storeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Document store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "kind"},
	)

	sessionsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of sessions created",
		},
	)

	sessionsDeleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_deleted_total",
			Help:      "Total number of sessions deleted",
		},
	)

	projectsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projects_created_total",
			Help:      "Total number of projects created",
		},
	)

	projectsDeleted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projects_deleted_total",
			Help:      "Total number of projects deleted",
		},
	)

	searchesExecuted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_executed_total",
			Help:      "Total number of session searches executed",
		},
	)

	eventsHandled := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_handled_total",
			Help:      "Total number of domain events delivered to listeners",
		},
		[]string{"event_type"},
	)

	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
	)

	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
	)

	tagIndexSize := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tag_index_buckets",
			Help:      "Number of tag buckets in the tag index",
		},
	)

	keywordIndexSize := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "keyword_index_tokens",
			Help:      "Number of tokens in the keyword inverted index",
		},
	)

	registry.MustRegister(
		storeOperations,
		storeDuration,
		sessionsCreated,
		sessionsDeleted,
		projectsCreated,
		projectsDeleted,
		searchesExecuted,
		eventsHandled,
		cacheHits,
		cacheMisses,
		tagIndexSize,
		keywordIndexSize,
	)

	globalCollector = &Collector{
		registry:         registry,
		StoreOperations:  storeOperations,
		StoreDuration:    storeDuration,
		SessionsCreated:  sessionsCreated,
		SessionsDeleted:  sessionsDeleted,
		ProjectsCreated:  projectsCreated,
		ProjectsDeleted:  projectsDeleted,
		SearchesExecuted: searchesExecuted,
		EventsHandled:    eventsHandled,
		CacheHits:        cacheHits,
		CacheMisses:      cacheMisses,
		TagIndexSize:     tagIndexSize,
		KeywordIndexSize: keywordIndexSize,
	}

	return globalCollector
}

// Registry returns the underlying registry for scraping or test inspection
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
