package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/application/ports"
	"github.com/aeroxkoki/sailing-sub005/domain/core/entities"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// AnnotationService stores free-form annotations per session, each
// optionally pinned to a position and a moment in time.
type AnnotationService struct {
	store  ports.DocumentStore
	repo   *Repository
	logger *zap.Logger
}

// NewAnnotationService creates an annotation service
func NewAnnotationService(store ports.DocumentStore, repo *Repository, logger *zap.Logger) *AnnotationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnotationService{store: store, repo: repo, logger: logger}
}

// SaveAnnotation creates and persists a new annotation for a session
func (s *AnnotationService) SaveAnnotation(ctx context.Context, sessionID, title, content, annotationType string, metadata map[string]any) (*entities.SessionAnnotation, error) {
	if _, ok := s.repo.GetSession(sessionID); !ok {
		return nil, pkgerrors.NewNotFound("sessions", sessionID)
	}

	annotation, err := entities.NewSessionAnnotation(title, content, annotationType, metadata)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveChild(ctx, ports.KindAnnotation, sessionID, annotation.ID().String(), annotation.ToDocument()); err != nil {
		return nil, err
	}
	return annotation, nil
}

// GetAnnotation loads one annotation by id
func (s *AnnotationService) GetAnnotation(ctx context.Context, sessionID, annotationID string) (*entities.SessionAnnotation, error) {
	var doc entities.SessionAnnotationDocument
	if err := s.store.LoadChild(ctx, ports.KindAnnotation, sessionID, annotationID, &doc); err != nil {
		return nil, err
	}
	return entities.SessionAnnotationFromDocument(doc)
}

// ListAnnotations loads every annotation of a session, oldest first.
// Corrupt files are logged and skipped.
func (s *AnnotationService) ListAnnotations(ctx context.Context, sessionID string) ([]*entities.SessionAnnotation, error) {
	ids, err := s.store.ListChildIDs(ctx, ports.KindAnnotation, sessionID)
	if err != nil {
		return nil, err
	}

	annotations := make([]*entities.SessionAnnotation, 0, len(ids))
	for _, id := range ids {
		annotation, err := s.GetAnnotation(ctx, sessionID, id)
		if err != nil {
			s.logger.Warn("skipping unreadable annotation file",
				zap.String("session_id", sessionID),
				zap.String("annotation_id", id),
				zap.Error(err),
			)
			continue
		}
		annotations = append(annotations, annotation)
	}

	sort.Slice(annotations, func(i, j int) bool {
		return annotations[i].CreatedAt().Before(annotations[j].CreatedAt())
	})
	return annotations, nil
}

// UpdateAnnotation applies a mutator to a stored annotation and persists
// the result
func (s *AnnotationService) UpdateAnnotation(ctx context.Context, sessionID, annotationID string, mutate func(*entities.SessionAnnotation) error) (*entities.SessionAnnotation, error) {
	annotation, err := s.GetAnnotation(ctx, sessionID, annotationID)
	if err != nil {
		return nil, err
	}

	if err := mutate(annotation); err != nil {
		return nil, err
	}

	if err := s.store.SaveChild(ctx, ports.KindAnnotation, sessionID, annotationID, annotation.ToDocument()); err != nil {
		return nil, err
	}
	return annotation, nil
}

// DeleteAnnotation removes an annotation; false for an unknown id
func (s *AnnotationService) DeleteAnnotation(ctx context.Context, sessionID, annotationID string) (bool, error) {
	return s.store.DeleteChild(ctx, ports.KindAnnotation, sessionID, annotationID)
}
