// Package di assembles the store's components: configuration, logging,
// the document store with its decorators, the event bus, the repository
// and the services on top of it.
package di

import (
	"fmt"

	"github.com/google/wire"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/application/services"
	"github.com/aeroxkoki/sailing-sub005/infrastructure/config"
	"github.com/aeroxkoki/sailing-sub005/infrastructure/messaging"
	"github.com/aeroxkoki/sailing-sub005/infrastructure/persistence"
	"github.com/aeroxkoki/sailing-sub005/infrastructure/persistence/jsonfile"
	"github.com/aeroxkoki/sailing-sub005/pkg/observability"
)

// SuperSet is the complete provider set for the store
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideFilesystem,
	ProvideCollector,
	ProvideDocumentStore,
	ProvideEventBus,
	ProvideRepository,
	ProvideSearchService,
	ProvideRelationshipService,
	ProvideResultService,
	ProvideStateService,
	ProvideAnnotationService,
	NewContainer,
)

// ProvideLogger builds the zap logger for the configured environment and
// level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// ProvideFilesystem returns the OS filesystem. Tests substitute an
// in-memory one.
func ProvideFilesystem() afero.Fs {
	return afero.NewOsFs()
}

// ProvideCollector builds the metrics collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("sailing")
}

// ProvideDocumentStore builds the JSON file store with the configured
// failure policy and stacks the enabled decorators on top of it
func ProvideDocumentStore(cfg *config.Config, fs afero.Fs, logger *zap.Logger, collector *observability.Collector) ports.DocumentStore {
	var store ports.DocumentStore
	switch cfg.Storage.Policy {
	case config.PolicyDurable:
		store = jsonfile.New(fs, cfg.Storage.BasePath, jsonfile.DurablePolicy{}, logger)
	case config.PolicyBestEffort:
		store = jsonfile.New(fs, cfg.Storage.BasePath, jsonfile.NewBestEffortPolicy(logger), logger)
	default:
		store = jsonfile.NewWithProbe(fs, cfg.Storage.BasePath, logger)
	}

	if cfg.Observability.CircuitBreakerEnabled {
		store = persistence.NewCircuitBreakerStore(store, logger)
	}
	if cfg.Observability.MetricsEnabled {
		store = persistence.NewMetricsStore(store, collector)
	}
	if cfg.Observability.TracingEnabled {
		store = persistence.NewTracedStore(store, otel.Tracer("document-store"))
	}
	return store
}

// ProvideEventBus builds the in-process event bus with the default
// listeners attached
func ProvideEventBus(cfg *config.Config, logger *zap.Logger, collector *observability.Collector) ports.EventBus {
	bus := messaging.NewBus(logger)
	bus.Subscribe(messaging.NewLoggingListener(logger))
	if cfg.Observability.MetricsEnabled {
		bus.Subscribe(messaging.NewMetricsListener(collector))
	}
	return bus
}

// ProvideRepository builds the repository over the store
func ProvideRepository(store ports.DocumentStore, bus ports.EventBus, logger *zap.Logger, collector *observability.Collector) *services.Repository {
	return services.NewRepository(store, bus, logger, collector)
}

// ProvideSearchService builds the search service
func ProvideSearchService(repo *services.Repository, logger *zap.Logger, collector *observability.Collector) *services.SearchService {
	return services.NewSearchService(repo, logger, collector)
}

// ProvideRelationshipService builds the relationship service
func ProvideRelationshipService(repo *services.Repository, logger *zap.Logger) *services.RelationshipService {
	return services.NewRelationshipService(repo, logger)
}

// ProvideResultService builds the versioned result store
func ProvideResultService(store ports.DocumentStore, repo *services.Repository, bus ports.EventBus, logger *zap.Logger) *services.ResultService {
	return services.NewResultService(store, repo, bus, logger)
}

// ProvideStateService builds the state snapshot service
func ProvideStateService(store ports.DocumentStore, repo *services.Repository, logger *zap.Logger) *services.StateService {
	return services.NewStateService(store, repo, logger)
}

// ProvideAnnotationService builds the annotation service
func ProvideAnnotationService(store ports.DocumentStore, repo *services.Repository, logger *zap.Logger) *services.AnnotationService {
	return services.NewAnnotationService(store, repo, logger)
}
