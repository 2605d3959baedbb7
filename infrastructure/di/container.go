package di

import (
	"context"

	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/application/services"
	"github.com/aeroxkoki/sailing-sub005/infrastructure/config"
	"github.com/aeroxkoki/sailing-sub005/pkg/observability"
)

// Container holds every assembled component of the store
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Collector *observability.Collector

	Store ports.DocumentStore
	Bus   ports.EventBus

	Repository    *services.Repository
	Search        *services.SearchService
	Relationships *services.RelationshipService
	Results       *services.ResultService
	States        *services.StateService
	Annotations   *services.AnnotationService
}

// NewContainer assembles the container from its components
func NewContainer(
	cfg *config.Config,
	logger *zap.Logger,
	collector *observability.Collector,
	store ports.DocumentStore,
	bus ports.EventBus,
	repo *services.Repository,
	search *services.SearchService,
	relationships *services.RelationshipService,
	results *services.ResultService,
	states *services.StateService,
	annotations *services.AnnotationService,
) *Container {
	return &Container{
		Config:        cfg,
		Logger:        logger,
		Collector:     collector,
		Store:         store,
		Bus:           bus,
		Repository:    repo,
		Search:        search,
		Relationships: relationships,
		Results:       results,
		States:        states,
		Annotations:   annotations,
	}
}

// Bootstrap loads the persisted corpus into the repository cache
func (c *Container) Bootstrap(ctx context.Context) error {
	return c.Repository.Reload(ctx)
}

// Shutdown flushes the logger
func (c *Container) Shutdown() {
	_ = c.Logger.Sync()
}

// Build assembles a container without code generation, for callers that
// construct the store at runtime from an already loaded configuration
func Build(cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	fs := ProvideFilesystem()
	collector := ProvideCollector()
	store := ProvideDocumentStore(cfg, fs, logger, collector)
	bus := ProvideEventBus(cfg, logger, collector)
	repo := ProvideRepository(store, bus, logger, collector)

	return NewContainer(
		cfg,
		logger,
		collector,
		store,
		bus,
		repo,
		ProvideSearchService(repo, logger, collector),
		ProvideRelationshipService(repo, logger),
		ProvideResultService(store, repo, bus, logger),
		ProvideStateService(store, repo, logger),
		ProvideAnnotationService(store, repo, logger),
	), nil
}
