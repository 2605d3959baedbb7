package entities

import (
	"time"

	"github.com/aeroxkoki/sailing-sub005/domain/core/valueobjects"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// SessionResult is one versioned analysis result attached to a session.
// Results sharing a result type within a session form a logical slot;
// exactly one of them is conventionally marked current. The store does
// not enforce the single-current invariant, promotion is the caller's
// responsibility (clear the old flag, then set the new one).
type SessionResult struct {
	id         valueobjects.ResultID
	sessionID  valueobjects.SessionID
	name       string
	resultType string
	data       any
	metadata   map[string]any
	version    int
	isCurrent  bool
	createdAt  time.Time
	updatedAt  time.Time
}

// NewSessionResult creates a new analysis result at version 1
func NewSessionResult(sessionID valueobjects.SessionID, name, resultType string, data any, metadata map[string]any) (*SessionResult, error) {
	if name == "" {
		return nil, pkgerrors.NewValidation("result name cannot be empty")
	}
	if resultType == "" {
		return nil, pkgerrors.NewValidation("result type cannot be empty")
	}
	if data == nil {
		return nil, pkgerrors.NewValidation("result data cannot be nil")
	}
	if sessionID.IsEmpty() {
		return nil, pkgerrors.NewValidation("result must belong to a session")
	}

	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	return &SessionResult{
		id:         valueobjects.NewResultID(),
		sessionID:  sessionID,
		name:       name,
		resultType: resultType,
		data:       data,
		metadata:   cloneMetadata(metadata),
		version:    1,
		isCurrent:  false,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ID returns the result's unique identifier
func (r *SessionResult) ID() valueobjects.ResultID {
	return r.id
}

// SessionID returns the owning session's identifier
func (r *SessionResult) SessionID() valueobjects.SessionID {
	return r.sessionID
}

// Name returns the result name
func (r *SessionResult) Name() string {
	return r.name
}

// ResultType returns the logical slot this result belongs to
func (r *SessionResult) ResultType() string {
	return r.resultType
}

// Data returns the opaque result payload
func (r *SessionResult) Data() any {
	return r.data
}

// GetMetadata returns a copy of the result's metadata
func (r *SessionResult) GetMetadata() map[string]any {
	return cloneMetadata(r.metadata)
}

// Version returns the monotonic result version, starting at 1
func (r *SessionResult) Version() int {
	return r.version
}

// IsCurrent reports whether this result is the authoritative one in its slot
func (r *SessionResult) IsCurrent() bool {
	return r.isCurrent
}

// CreatedAt returns the creation timestamp
func (r *SessionResult) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns the last modification timestamp
func (r *SessionResult) UpdatedAt() time.Time {
	return r.updatedAt
}

// Update replaces the payload and increments the version by exactly one.
// Name and metadata updates are optional; is_current is never touched
// here.
func (r *SessionResult) Update(data any, name string, metadataUpdates map[string]any) error {
	if data == nil {
		return pkgerrors.NewValidation("result data cannot be nil")
	}

	r.data = data
	if name != "" {
		r.name = name
	}
	for k, v := range metadataUpdates {
		r.metadata[k] = v
	}

	r.version++
	now := time.Now()
	if now.After(r.updatedAt) {
		r.updatedAt = now
	}
	return nil
}

// MarkAsCurrent flips the current flag. The single-current invariant is
// caller-enforced across a slot.
func (r *SessionResult) MarkAsCurrent(current bool) {
	if r.isCurrent == current {
		return
	}
	r.isCurrent = current
	now := time.Now()
	if now.After(r.updatedAt) {
		r.updatedAt = now
	}
}

// SessionResultDocument is the on-disk JSON representation of a result
type SessionResultDocument struct {
	ResultID   string         `json:"result_id"`
	SessionID  string         `json:"session_id"`
	Name       string         `json:"name" validate:"required"`
	ResultType string         `json:"result_type" validate:"required"`
	Data       any            `json:"data" validate:"required"`
	Metadata   map[string]any `json:"metadata"`
	Version    int            `json:"version"`
	IsCurrent  bool           `json:"is_current"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

// ToDocument returns the lossless document form of the result
func (r *SessionResult) ToDocument() SessionResultDocument {
	return SessionResultDocument{
		ResultID:   r.id.String(),
		SessionID:  r.sessionID.String(),
		Name:       r.name,
		ResultType: r.resultType,
		Data:       r.data,
		Metadata:   r.GetMetadata(),
		Version:    r.version,
		IsCurrent:  r.isCurrent,
		CreatedAt:  formatTime(r.createdAt),
		UpdatedAt:  formatTime(r.updatedAt),
	}
}

// SessionResultFromDocument reconstructs a result from its document form.
// name, result_type and data are required; everything else is defaulted.
func SessionResultFromDocument(doc SessionResultDocument) (*SessionResult, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	id := valueobjects.NewResultID()
	if doc.ResultID != "" {
		parsed, err := valueobjects.ParseResultID(doc.ResultID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	sessionID, err := valueobjects.ParseSessionID(doc.SessionID)
	if err != nil {
		return nil, err
	}

	metadata := doc.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}

	version := doc.Version
	if version < 1 {
		version = 1
	}

	now := time.Now()
	createdAt := parseTime(doc.CreatedAt, now)
	updatedAt := parseTime(doc.UpdatedAt, createdAt)

	return &SessionResult{
		id:         id,
		sessionID:  sessionID,
		name:       doc.Name,
		resultType: doc.ResultType,
		data:       doc.Data,
		metadata:   cloneMetadata(metadata),
		version:    version,
		isCurrent:  doc.IsCurrent,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}
