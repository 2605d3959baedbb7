package entities

import (
	"strings"
	"time"

	"github.com/aeroxkoki/sailing-sub005/domain/core/valueobjects"
	"github.com/aeroxkoki/sailing-sub005/domain/events"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// SessionStatus represents the workflow state of a session.
// The set is open: the constants below are the conventional values, but
// any string loaded from disk is preserved as-is.
type SessionStatus string

const (
	StatusNew        SessionStatus = "new"
	StatusActive     SessionStatus = "active"
	StatusInProgress SessionStatus = "in_progress"
	StatusValidated  SessionStatus = "validated"
	StatusAnalyzed   SessionStatus = "analyzed"
	StatusCompleted  SessionStatus = "completed"
	StatusArchived   SessionStatus = "archived"
)

// Session is a unit of recorded sailing activity with metadata, tags and
// optional linked data/state files and analysis results.
// This is a rich domain model with encapsulated business logic: every
// content-changing mutator bumps updatedAt, idempotent re-application of
// the same change does not.
type Session struct {
	id          valueobjects.SessionID
	name        string
	description string
	tags        []string
	metadata    map[string]any
	status      SessionStatus
	category    string
	rating      valueobjects.Rating
	dataFile    string
	stateFile   string
	resultIDs   []string
	createdAt   time.Time
	updatedAt   time.Time
	version     int

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewSession creates a new session with business rule validation
func NewSession(name, description string, tags []string, metadata map[string]any) (*Session, error) {
	if name == "" {
		return nil, pkgerrors.NewValidation("session name cannot be empty")
	}

	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	s := &Session{
		id:          valueobjects.NewSessionID(),
		name:        name,
		description: description,
		tags:        dedupeStrings(tags),
		metadata:    cloneMetadata(metadata),
		status:      StatusNew,
		category:    "",
		createdAt:   now,
		updatedAt:   now,
		version:     1,
		resultIDs:   []string{},
		events:      []events.DomainEvent{},
	}

	s.addEvent(events.NewSessionCreated(s.id.String(), name, nil, s.GetTags(), now))

	return s, nil
}

// ID returns the session's unique identifier
func (s *Session) ID() valueobjects.SessionID {
	return s.id
}

// Name returns the session name
func (s *Session) Name() string {
	return s.name
}

// Description returns the session description
func (s *Session) Description() string {
	return s.description
}

// Status returns the session's current workflow status
func (s *Session) Status() SessionStatus {
	return s.status
}

// Category returns the session category
func (s *Session) Category() string {
	return s.category
}

// Rating returns the session rating
func (s *Session) Rating() valueobjects.Rating {
	return s.rating
}

// DataFile returns the linked data-container path, if any
func (s *Session) DataFile() string {
	return s.dataFile
}

// StateFile returns the linked state path, if any
func (s *Session) StateFile() string {
	return s.stateFile
}

// CreatedAt returns the creation timestamp
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns the last modification timestamp
func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

// Version returns the session's version, bumped on every content change
func (s *Session) Version() int {
	return s.version
}

// GetTags returns a copy of the session's tags
func (s *Session) GetTags() []string {
	return cloneStrings(s.tags)
}

// GetMetadata returns a copy of the session's metadata map
func (s *Session) GetMetadata() map[string]any {
	return cloneMetadata(s.metadata)
}

// ResultIDs returns a copy of the attached analysis result ids
func (s *Session) ResultIDs() []string {
	return cloneStrings(s.resultIDs)
}

// Rename changes the session name
func (s *Session) Rename(name string) error {
	if name == "" {
		return pkgerrors.NewValidation("session name cannot be empty")
	}
	if name == s.name {
		return nil // No change needed
	}

	s.name = name
	s.touch()
	s.addEvent(events.NewSessionUpdated(s.id.String(), "name", s.updatedAt))
	return nil
}

// UpdateDescription changes the session description
func (s *Session) UpdateDescription(description string) {
	if description == s.description {
		return
	}
	s.description = description
	s.touch()
	s.addEvent(events.NewSessionUpdated(s.id.String(), "description", s.updatedAt))
}

// SetStatus changes the workflow status. The status set is open, so any
// non-empty string is accepted.
func (s *Session) SetStatus(status SessionStatus) error {
	if status == "" {
		return pkgerrors.NewValidation("session status cannot be empty")
	}
	if status == s.status {
		return nil
	}
	s.status = status
	s.touch()
	s.addEvent(events.NewSessionUpdated(s.id.String(), "status", s.updatedAt))
	return nil
}

// SetCategory changes the session category
func (s *Session) SetCategory(category string) {
	if category == s.category {
		return
	}
	s.category = category
	s.touch()
	s.addEvent(events.NewSessionUpdated(s.id.String(), "category", s.updatedAt))
}

// SetRating changes the session rating
func (s *Session) SetRating(rating valueobjects.Rating) {
	if rating.Equals(s.rating) {
		return
	}
	s.rating = rating
	s.touch()
	s.addEvent(events.NewSessionUpdated(s.id.String(), "rating", s.updatedAt))
}

// AddTag adds a tag. Re-adding an existing tag is a no-op and does not
// bump updatedAt.
func (s *Session) AddTag(tag string) error {
	if tag == "" {
		return pkgerrors.NewValidation("tag cannot be empty")
	}
	if containsString(s.tags, tag) {
		return nil // Tag already exists
	}

	old := s.GetTags()
	s.tags = append(s.tags, tag)
	s.touch()
	s.addEvent(events.NewSessionTagsChanged(s.id.String(), old, s.GetTags(), s.updatedAt))
	return nil
}

// RemoveTag removes a tag. Removing an absent tag is a no-op and does not
// bump updatedAt.
func (s *Session) RemoveTag(tag string) {
	if !containsString(s.tags, tag) {
		return
	}

	old := s.GetTags()
	kept := make([]string, 0, len(s.tags))
	for _, t := range s.tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	s.tags = kept
	s.touch()
	s.addEvent(events.NewSessionTagsChanged(s.id.String(), old, s.GetTags(), s.updatedAt))
}

// SetTags replaces the whole tag set. Setting an identical set (order
// irrelevant) is a no-op.
func (s *Session) SetTags(tags []string) {
	normalized := dedupeStrings(tags)
	if sameTagSet(s.tags, normalized) {
		return
	}

	old := s.GetTags()
	s.tags = normalized
	s.touch()
	s.addEvent(events.NewSessionTagsChanged(s.id.String(), old, s.GetTags(), s.updatedAt))
}

// SetMetadata sets a metadata key. Writing an identical value is a no-op.
func (s *Session) SetMetadata(key string, value any) error {
	if key == "" {
		return pkgerrors.NewValidation("metadata key cannot be empty")
	}
	if existing, ok := s.metadata[key]; ok && metadataValueEqual(existing, value) {
		return nil
	}
	s.metadata[key] = value
	s.touch()
	s.addEvent(events.NewSessionUpdated(s.id.String(), "metadata", s.updatedAt))
	return nil
}

// RemoveMetadata deletes a metadata key. Removing an absent key is a no-op.
func (s *Session) RemoveMetadata(key string) {
	if _, ok := s.metadata[key]; !ok {
		return
	}
	delete(s.metadata, key)
	s.touch()
	s.addEvent(events.NewSessionUpdated(s.id.String(), "metadata", s.updatedAt))
}

// AttachDataFile records the path of the serialized data container
func (s *Session) AttachDataFile(path string) {
	if path == s.dataFile {
		return
	}
	s.dataFile = path
	s.touch()
}

// AttachStateFile records the path of the serialized state snapshot
func (s *Session) AttachStateFile(path string) {
	if path == s.stateFile {
		return
	}
	s.stateFile = path
	s.touch()
}

// AddResultRef links an analysis result id to this session. Duplicate
// refs are ignored.
func (s *Session) AddResultRef(resultID string) {
	if resultID == "" || containsString(s.resultIDs, resultID) {
		return
	}
	s.resultIDs = append(s.resultIDs, resultID)
	s.touch()
}

// RemoveResultRef unlinks an analysis result id from this session
func (s *Session) RemoveResultRef(resultID string) {
	if !containsString(s.resultIDs, resultID) {
		return
	}
	kept := make([]string, 0, len(s.resultIDs))
	for _, id := range s.resultIDs {
		if id != resultID {
			kept = append(kept, id)
		}
	}
	s.resultIDs = kept
	s.touch()
}

// SearchableText returns the text the keyword index is built from:
// name, description, tags and string-valued metadata.
func (s *Session) SearchableText() string {
	parts := make([]string, 0, 3+len(s.tags)+len(s.metadata))
	parts = append(parts, s.name, s.description)
	parts = append(parts, s.tags...)
	for _, v := range s.metadata {
		if str, ok := v.(string); ok {
			parts = append(parts, str)
		}
	}
	return strings.Join(parts, " ")
}

// GetUncommittedEvents returns the events recorded since the last commit
func (s *Session) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(s.events))
	copy(out, s.events)
	return out
}

// MarkEventsAsCommitted clears the recorded events after publishing
func (s *Session) MarkEventsAsCommitted() {
	s.events = []events.DomainEvent{}
}

func (s *Session) addEvent(event events.DomainEvent) {
	s.events = append(s.events, event)
}

func (s *Session) touch() {
	now := time.Now()
	// updatedAt is monotonic-non-decreasing even if the wall clock jumps
	if now.After(s.updatedAt) {
		s.updatedAt = now
	}
	s.version++
}

// SessionDocument is the on-disk JSON representation of a Session.
// Field set and names follow the store's document schema; timestamps are
// ISO-8601 strings with no enforced timezone.
type SessionDocument struct {
	SessionID       string         `json:"session_id"`
	Name            string         `json:"name" validate:"required"`
	Description     string         `json:"description"`
	Tags            []string       `json:"tags"`
	Metadata        map[string]any `json:"metadata"`
	Status          string         `json:"status"`
	Category        string         `json:"category"`
	Rating          int            `json:"rating" validate:"min=0,max=5"`
	DataFile        string         `json:"data_file,omitempty"`
	StateFile       string         `json:"state_file,omitempty"`
	AnalysisResults []string       `json:"analysis_results"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
}

// ToDocument returns the lossless document form of the session
func (s *Session) ToDocument() SessionDocument {
	return SessionDocument{
		SessionID:       s.id.String(),
		Name:            s.name,
		Description:     s.description,
		Tags:            s.GetTags(),
		Metadata:        s.GetMetadata(),
		Status:          string(s.status),
		Category:        s.category,
		Rating:          s.rating.Int(),
		DataFile:        s.dataFile,
		StateFile:       s.stateFile,
		AnalysisResults: s.ResultIDs(),
		CreatedAt:       formatTime(s.createdAt),
		UpdatedAt:       formatTime(s.updatedAt),
	}
}

// SessionFromDocument reconstructs a session from its document form.
// Missing or unknown keys are defaulted rather than rejected; only an
// absent name is a validation failure.
func SessionFromDocument(doc SessionDocument) (*Session, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	id := valueobjects.NewSessionID()
	if doc.SessionID != "" {
		parsed, err := valueobjects.ParseSessionID(doc.SessionID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	rating, err := valueobjects.NewRating(doc.Rating)
	if err != nil {
		return nil, err
	}

	status := SessionStatus(doc.Status)
	if status == "" {
		status = StatusNew
	}

	metadata := doc.Metadata
	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	createdAt := parseTime(doc.CreatedAt, now)
	updatedAt := parseTime(doc.UpdatedAt, createdAt)

	resultIDs := doc.AnalysisResults
	if resultIDs == nil {
		resultIDs = []string{}
	}

	return &Session{
		id:          id,
		name:        doc.Name,
		description: doc.Description,
		tags:        dedupeStrings(doc.Tags),
		metadata:    cloneMetadata(metadata),
		status:      status,
		category:    doc.Category,
		rating:      rating,
		dataFile:    doc.DataFile,
		stateFile:   doc.StateFile,
		resultIDs:   cloneStrings(resultIDs),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     1,
		events:      []events.DomainEvent{},
	}, nil
}
