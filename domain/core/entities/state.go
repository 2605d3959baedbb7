package entities

import (
	"time"

	"github.com/aeroxkoki/sailing-sub005/domain/core/valueobjects"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// SessionState is a point-in-time snapshot of a session's working state,
// independent of the versioned analysis results.
type SessionState struct {
	id        valueobjects.StateID
	name      string
	stateData any
	metadata  map[string]any
	createdAt time.Time
	updatedAt time.Time
}

// NewSessionState creates a new state snapshot
func NewSessionState(name string, stateData any, metadata map[string]any) (*SessionState, error) {
	if name == "" {
		return nil, pkgerrors.NewValidation("state name cannot be empty")
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	return &SessionState{
		id:        valueobjects.NewStateID(),
		name:      name,
		stateData: stateData,
		metadata:  cloneMetadata(metadata),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ID returns the state's unique identifier
func (s *SessionState) ID() valueobjects.StateID {
	return s.id
}

// Name returns the state name
func (s *SessionState) Name() string {
	return s.name
}

// StateData returns the opaque snapshot payload
func (s *SessionState) StateData() any {
	return s.stateData
}

// GetMetadata returns a copy of the state's metadata
func (s *SessionState) GetMetadata() map[string]any {
	return cloneMetadata(s.metadata)
}

// CreatedAt returns the creation timestamp
func (s *SessionState) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns the last modification timestamp
func (s *SessionState) UpdatedAt() time.Time {
	return s.updatedAt
}

// ReplaceData swaps the snapshot payload
func (s *SessionState) ReplaceData(stateData any) {
	s.stateData = stateData
	now := time.Now()
	if now.After(s.updatedAt) {
		s.updatedAt = now
	}
}

// SessionStateDocument is the on-disk JSON representation of a state
type SessionStateDocument struct {
	StateID   string         `json:"state_id"`
	Name      string         `json:"name" validate:"required"`
	StateData any            `json:"state_data"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// ToDocument returns the lossless document form of the state
func (s *SessionState) ToDocument() SessionStateDocument {
	return SessionStateDocument{
		StateID:   s.id.String(),
		Name:      s.name,
		StateData: s.stateData,
		Metadata:  s.GetMetadata(),
		CreatedAt: formatTime(s.createdAt),
		UpdatedAt: formatTime(s.updatedAt),
	}
}

// SessionStateFromDocument reconstructs a state from its document form
func SessionStateFromDocument(doc SessionStateDocument) (*SessionState, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	id := valueobjects.NewStateID()
	if doc.StateID != "" {
		parsed, err := valueobjects.ParseStateID(doc.StateID)
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

	return &SessionState{
		id:        id,
		name:      doc.Name,
		stateData: doc.StateData,
		metadata:  cloneMetadata(metadata),
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}
