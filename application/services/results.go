package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/domain/core/entities"
	"github.com/aeroxkoki/sailing-sub005/domain/events"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// ResultService is the versioned result store: per-session, per-result-id
// persistence of analysis results with monotonic versions and a current
// flag. Results sharing a result type within a session form a logical
// slot; promoting a new current version is the caller's responsibility
// (clear the old flag, then set the new one), the store does not enforce
// a single current result per slot.
type ResultService struct {
	store  ports.DocumentStore
	repo   *Repository
	bus    ports.EventBus
	logger *zap.Logger
}

// NewResultService creates a result service. The event bus is optional.
func NewResultService(store ports.DocumentStore, repo *Repository, bus ports.EventBus, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{store: store, repo: repo, bus: bus, logger: logger}
}

// SaveResult creates a new result at version 1, persists it and links it
// to the owning session's analysis_results list
func (s *ResultService) SaveResult(ctx context.Context, sessionID, name, resultType string, data any, metadata map[string]any) (*entities.SessionResult, error) {
	session, ok := s.repo.GetSession(sessionID)
	if !ok {
		return nil, pkgerrors.NewNotFound("sessions", sessionID)
	}

	result, err := entities.NewSessionResult(session.ID(), name, resultType, data, metadata)
	if err != nil {
		return nil, err
	}
	resultID := result.ID().String()

	if err := s.store.SaveChild(ctx, ports.KindResult, sessionID, resultID, result.ToDocument()); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSession(ctx, sessionID, func(sess *entities.Session) error {
		sess.AddResultRef(resultID)
		return nil
	}); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewResultSaved(sessionID, resultID, resultType, result.Version(), time.Now()))
	}
	return result, nil
}

// GetResult loads one result by id
func (s *ResultService) GetResult(ctx context.Context, sessionID, resultID string) (*entities.SessionResult, error) {
	var doc entities.SessionResultDocument
	if err := s.store.LoadChild(ctx, ports.KindResult, sessionID, resultID, &doc); err != nil {
		return nil, err
	}
	return entities.SessionResultFromDocument(doc)
}

// ListResults loads every result of a session. A corrupt result file is
// logged and skipped, mirroring bulk-load behavior elsewhere.
func (s *ResultService) ListResults(ctx context.Context, sessionID string) ([]*entities.SessionResult, error) {
	ids, err := s.store.ListChildIDs(ctx, ports.KindResult, sessionID)
	if err != nil {
		return nil, err
	}

	results := make([]*entities.SessionResult, 0, len(ids))
	for _, id := range ids {
		result, err := s.GetResult(ctx, sessionID, id)
		if err != nil {
			s.logger.Warn("skipping unreadable result file",
				zap.String("session_id", sessionID),
				zap.String("result_id", id),
				zap.Error(err),
			)
			continue
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt().Before(results[j].CreatedAt())
	})
	return results, nil
}

// UpdateResult replaces a result's payload, incrementing its version by
// exactly one. The current flag is never touched here.
func (s *ResultService) UpdateResult(ctx context.Context, sessionID, resultID string, data any, name string, metadataUpdates map[string]any) (*entities.SessionResult, error) {
	result, err := s.GetResult(ctx, sessionID, resultID)
	if err != nil {
		return nil, err
	}

	if err := result.Update(data, name, metadataUpdates); err != nil {
		return nil, err
	}

	if err := s.store.SaveChild(ctx, ports.KindResult, sessionID, resultID, result.ToDocument()); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewResultSaved(sessionID, resultID, result.ResultType(), result.Version(), time.Now()))
	}
	return result, nil
}

// MarkAsCurrent flips a result's current flag. Callers promoting a new
// current version clear the old flag first, then set the new one.
func (s *ResultService) MarkAsCurrent(ctx context.Context, sessionID, resultID string, current bool) error {
	result, err := s.GetResult(ctx, sessionID, resultID)
	if err != nil {
		return err
	}

	result.MarkAsCurrent(current)
	return s.store.SaveChild(ctx, ports.KindResult, sessionID, resultID, result.ToDocument())
}

// GetCurrentResult returns the current result in the slot identified by
// result type, or NotFound when the slot has no current result
func (s *ResultService) GetCurrentResult(ctx context.Context, sessionID, resultType string) (*entities.SessionResult, error) {
	results, err := s.ListResults(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, result := range results {
		if result.ResultType() == resultType && result.IsCurrent() {
			return result, nil
		}
	}
	return nil, pkgerrors.NewNotFound("results", resultType)
}

// GetResultVersions returns every result sharing the named result's
// logical slot (same result type within the session), ordered by
// ascending version
func (s *ResultService) GetResultVersions(ctx context.Context, sessionID, resultID string) ([]*entities.SessionResult, error) {
	target, err := s.GetResult(ctx, sessionID, resultID)
	if err != nil {
		return nil, err
	}

	results, err := s.ListResults(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	versions := make([]*entities.SessionResult, 0, len(results))
	for _, result := range results {
		if result.ResultType() == target.ResultType() {
			versions = append(versions, result)
		}
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version() < versions[j].Version()
	})
	return versions, nil
}

// DeleteResult removes a result file and unlinks it from the owning
// session. Returns false for an unknown result id.
func (s *ResultService) DeleteResult(ctx context.Context, sessionID, resultID string) (bool, error) {
	removed, err := s.store.DeleteChild(ctx, ports.KindResult, sessionID, resultID)
	if err != nil || !removed {
		return removed, err
	}

	if err := s.repo.UpdateSession(ctx, sessionID, func(sess *entities.Session) error {
		sess.RemoveResultRef(resultID)
		return nil
	}); err != nil && !pkgerrors.IsNotFound(err) {
		return true, err
	}
	return true, nil
}
