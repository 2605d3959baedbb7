package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/domain/core/entities"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// RelationshipService maintains project-session membership. Membership
// lives on the project side as an ordered, duplicate-free id list;
// sessions carry no back-references.
type RelationshipService struct {
	repo   *Repository
	logger *zap.Logger
}

// NewRelationshipService creates a relationship service over the repository
func NewRelationshipService(repo *Repository, logger *zap.Logger) *RelationshipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelationshipService{repo: repo, logger: logger}
}

// AddSessionToProject adds a session to a project's membership list.
// Adding an already present session is a no-op, not an error.
func (s *RelationshipService) AddSessionToProject(ctx context.Context, projectID, sessionID string) error {
	if _, ok := s.repo.GetSession(sessionID); !ok {
		return pkgerrors.NewNotFound("sessions", sessionID)
	}
	return s.repo.UpdateProject(ctx, projectID, func(p *entities.Project) error {
		p.AddSession(sessionID)
		return nil
	})
}

// RemoveSessionFromProject removes a session from a project's membership
// list. Removing an absent session is a no-op.
func (s *RelationshipService) RemoveSessionFromProject(ctx context.Context, projectID, sessionID string) error {
	return s.repo.UpdateProject(ctx, projectID, func(p *entities.Project) error {
		p.RemoveSession(sessionID)
		return nil
	})
}

// MoveSession moves a session between projects as remove-then-add with a
// compensating rollback: when the add to the target fails after a
// successful remove from the source, the source membership is restored
// before the failure is returned. A failed move never drops a session
// from all projects.
func (s *RelationshipService) MoveSession(ctx context.Context, sessionID, fromProjectID, toProjectID string) error {
	if _, ok := s.repo.GetSession(sessionID); !ok {
		return pkgerrors.NewNotFound("sessions", sessionID)
	}
	if _, ok := s.repo.GetProject(toProjectID); !ok {
		return pkgerrors.NewNotFound("projects", toProjectID)
	}

	removed := false
	if err := s.repo.UpdateProject(ctx, fromProjectID, func(p *entities.Project) error {
		removed = p.RemoveSession(sessionID)
		return nil
	}); err != nil {
		return err
	}

	if err := s.repo.UpdateProject(ctx, toProjectID, func(p *entities.Project) error {
		p.AddSession(sessionID)
		return nil
	}); err != nil {
		if removed {
			if rollbackErr := s.repo.UpdateProject(ctx, fromProjectID, func(p *entities.Project) error {
				p.AddSession(sessionID)
				return nil
			}); rollbackErr != nil {
				s.logger.Error("failed to restore source membership after aborted move",
					zap.String("session_id", sessionID),
					zap.String("from_project_id", fromProjectID),
					zap.Error(rollbackErr),
				)
			}
		}
		return err
	}

	return nil
}

// GetProjectSessions returns the sessions of a project in membership
// order. Dangling ids referencing deleted sessions are filtered out,
// never fatal.
func (s *RelationshipService) GetProjectSessions(projectID string) ([]*entities.Session, error) {
	project, ok := s.repo.GetProject(projectID)
	if !ok {
		return nil, pkgerrors.NewNotFound("projects", projectID)
	}

	ids := project.SessionIDs()
	sessions := make([]*entities.Session, 0, len(ids))
	for _, id := range ids {
		session, ok := s.repo.GetSession(id)
		if !ok {
			s.logger.Debug("filtering dangling session reference",
				zap.String("project_id", projectID),
				zap.String("session_id", id),
			)
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// GetSessionsNotInProject returns every session that is not a member of
// the given project. Linear over all sessions, membership checks are not
// a hot path.
func (s *RelationshipService) GetSessionsNotInProject(projectID string) ([]*entities.Session, error) {
	project, ok := s.repo.GetProject(projectID)
	if !ok {
		return nil, pkgerrors.NewNotFound("projects", projectID)
	}

	out := make([]*entities.Session, 0)
	for _, session := range s.repo.GetSessions() {
		if !project.HasSession(session.ID().String()) {
			out = append(out, session)
		}
	}
	return out, nil
}
