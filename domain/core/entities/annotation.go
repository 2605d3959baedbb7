package entities

import (
	"time"

	"github.com/aeroxkoki/sailing-sub005/domain/core/valueobjects"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// SessionAnnotation is a free-form note attached to a session, optionally
// pinned to a geographic position and a moment in time.
type SessionAnnotation struct {
	id             valueobjects.AnnotationID
	title          string
	content        string
	position       *valueobjects.Position
	timestamp      *time.Time
	annotationType string
	metadata       map[string]any
	createdAt      time.Time
	updatedAt      time.Time
}

// NewSessionAnnotation creates a new annotation
func NewSessionAnnotation(title, content, annotationType string, metadata map[string]any) (*SessionAnnotation, error) {
	if title == "" {
		return nil, pkgerrors.NewValidation("annotation title cannot be empty")
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	return &SessionAnnotation{
		id:             valueobjects.NewAnnotationID(),
		title:          title,
		content:        content,
		annotationType: annotationType,
		metadata:       cloneMetadata(metadata),
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ID returns the annotation's unique identifier
func (a *SessionAnnotation) ID() valueobjects.AnnotationID {
	return a.id
}

// Title returns the annotation title
func (a *SessionAnnotation) Title() string {
	return a.title
}

// Content returns the annotation body
func (a *SessionAnnotation) Content() string {
	return a.content
}

// Position returns the pinned position, or nil
func (a *SessionAnnotation) Position() *valueobjects.Position {
	return a.position
}

// Timestamp returns the pinned moment, or nil
func (a *SessionAnnotation) Timestamp() *time.Time {
	return a.timestamp
}

// AnnotationType returns the annotation type (open string set)
func (a *SessionAnnotation) AnnotationType() string {
	return a.annotationType
}

// GetMetadata returns a copy of the annotation's metadata
func (a *SessionAnnotation) GetMetadata() map[string]any {
	return cloneMetadata(a.metadata)
}

// CreatedAt returns the creation timestamp
func (a *SessionAnnotation) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns the last modification timestamp
func (a *SessionAnnotation) UpdatedAt() time.Time {
	return a.updatedAt
}

// PinPosition attaches a geographic position
func (a *SessionAnnotation) PinPosition(position valueobjects.Position) {
	if a.position != nil && a.position.Equals(position) {
		return
	}
	a.position = &position
	a.touch()
}

// PinTimestamp attaches a moment in time
func (a *SessionAnnotation) PinTimestamp(t time.Time) {
	if a.timestamp != nil && a.timestamp.Equal(t) {
		return
	}
	a.timestamp = &t
	a.touch()
}

// UpdateContent changes the annotation body
func (a *SessionAnnotation) UpdateContent(content string) {
	if content == a.content {
		return
	}
	a.content = content
	a.touch()
}

func (a *SessionAnnotation) touch() {
	now := time.Now()
	if now.After(a.updatedAt) {
		a.updatedAt = now
	}
}

// SessionAnnotationDocument is the on-disk JSON representation of an
// annotation. Position is a two-element [lat, lon] array when present.
type SessionAnnotationDocument struct {
	AnnotationID   string         `json:"annotation_id"`
	Title          string         `json:"title" validate:"required"`
	Content        string         `json:"content"`
	Position       []float64      `json:"position,omitempty"`
	Timestamp      string         `json:"timestamp,omitempty"`
	AnnotationType string         `json:"annotation_type"`
	Metadata       map[string]any `json:"metadata"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

// ToDocument returns the lossless document form of the annotation
func (a *SessionAnnotation) ToDocument() SessionAnnotationDocument {
	doc := SessionAnnotationDocument{
		AnnotationID:   a.id.String(),
		Title:          a.title,
		Content:        a.content,
		AnnotationType: a.annotationType,
		Metadata:       a.GetMetadata(),
		CreatedAt:      formatTime(a.createdAt),
		UpdatedAt:      formatTime(a.updatedAt),
	}
	if a.position != nil {
		doc.Position = []float64{a.position.Latitude(), a.position.Longitude()}
	}
	if a.timestamp != nil {
		doc.Timestamp = formatTime(*a.timestamp)
	}
	return doc
}

// SessionAnnotationFromDocument reconstructs an annotation from its
// document form. Only an absent title is a validation failure; a
// malformed position array is rejected as validation too, since it
// signals upstream corruption.
func SessionAnnotationFromDocument(doc SessionAnnotationDocument) (*SessionAnnotation, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	id := valueobjects.NewAnnotationID()
	if doc.AnnotationID != "" {
		parsed, err := valueobjects.ParseAnnotationID(doc.AnnotationID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	metadata := doc.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	createdAt := parseTime(doc.CreatedAt, now)
	updatedAt := parseTime(doc.UpdatedAt, createdAt)

	annotation := &SessionAnnotation{
		id:             id,
		title:          doc.Title,
		content:        doc.Content,
		annotationType: doc.AnnotationType,
		metadata:       cloneMetadata(metadata),
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}

	if len(doc.Position) > 0 {
		if len(doc.Position) != 2 {
			return nil, pkgerrors.NewValidation("annotation position must be a [lat, lon] pair")
		}
		position, err := valueobjects.NewPosition(doc.Position[0], doc.Position[1])
		if err != nil {
			return nil, err
		}
		annotation.position = &position
	}

	if doc.Timestamp != "" {
		t := parseTime(doc.Timestamp, now)
		annotation.timestamp = &t
	}

	return annotation, nil
}
