package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/domain/core/entities"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// StateService stores point-in-time state snapshots per session. New
// snapshots are written to the nested per-session layout; the flat
// legacy file at the session-id path is still readable for data written
// by earlier versions.
type StateService struct {
	store  ports.DocumentStore
	repo   *Repository
	logger *zap.Logger
}

// NewStateService creates a state service
func NewStateService(store ports.DocumentStore, repo *Repository, logger *zap.Logger) *StateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateService{store: store, repo: repo, logger: logger}
}

// SaveState creates and persists a new state snapshot for a session
func (s *StateService) SaveState(ctx context.Context, sessionID, name string, stateData any, metadata map[string]any) (*entities.SessionState, error) {
	if _, ok := s.repo.GetSession(sessionID); !ok {
		return nil, pkgerrors.NewNotFound("sessions", sessionID)
	}

	state, err := entities.NewSessionState(name, stateData, metadata)
	if err != nil {
		return nil, err
	}
	stateID := state.ID().String()

	if err := s.store.SaveChild(ctx, ports.KindState, sessionID, stateID, state.ToDocument()); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSession(ctx, sessionID, func(sess *entities.Session) error {
		sess.AttachStateFile("states/" + sessionID + "/" + stateID + ".json")
		return nil
	}); err != nil {
		return nil, err
	}
	return state, nil
}

// GetState loads one state snapshot by id
func (s *StateService) GetState(ctx context.Context, sessionID, stateID string) (*entities.SessionState, error) {
	var doc entities.SessionStateDocument
	if err := s.store.LoadChild(ctx, ports.KindState, sessionID, stateID, &doc); err != nil {
		return nil, err
	}
	return entities.SessionStateFromDocument(doc)
}

// GetLegacyState reads the flat single-state file written by earlier
// versions at the session-id path
func (s *StateService) GetLegacyState(ctx context.Context, sessionID string) (*entities.SessionState, error) {
	var doc entities.SessionStateDocument
	if err := s.store.Load(ctx, ports.KindState, sessionID, &doc); err != nil {
		return nil, err
	}
	return entities.SessionStateFromDocument(doc)
}

// ListStates loads every state snapshot of a session, oldest first.
// Corrupt files are logged and skipped.
func (s *StateService) ListStates(ctx context.Context, sessionID string) ([]*entities.SessionState, error) {
	ids, err := s.store.ListChildIDs(ctx, ports.KindState, sessionID)
	if err != nil {
		return nil, err
	}

	states := make([]*entities.SessionState, 0, len(ids))
	for _, id := range ids {
		state, err := s.GetState(ctx, sessionID, id)
		if err != nil {
			s.logger.Warn("skipping unreadable state file",
				zap.String("session_id", sessionID),
				zap.String("state_id", id),
				zap.Error(err),
			)
			continue
		}
		states = append(states, state)
	}

	sort.Slice(states, func(i, j int) bool {
		return states[i].CreatedAt().Before(states[j].CreatedAt())
	})
	return states, nil
}

// UpdateState replaces a snapshot's payload and persists it
func (s *StateService) UpdateState(ctx context.Context, sessionID, stateID string, stateData any) (*entities.SessionState, error) {
	state, err := s.GetState(ctx, sessionID, stateID)
	if err != nil {
		return nil, err
	}

	state.ReplaceData(stateData)
	if err := s.store.SaveChild(ctx, ports.KindState, sessionID, stateID, state.ToDocument()); err != nil {
		return nil, err
	}
	return state, nil
}

// DeleteState removes a state snapshot; false for an unknown id
func (s *StateService) DeleteState(ctx context.Context, sessionID, stateID string) (bool, error) {
	return s.store.DeleteChild(ctx, ports.KindState, sessionID, stateID)
}
