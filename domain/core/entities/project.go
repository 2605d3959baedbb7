package entities

import (
	"time"

	"github.com/aeroxkoki/sailing-sub005/domain/core/valueobjects"
	"github.com/aeroxkoki/sailing-sub005/domain/events"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// Project is a named work container referencing zero or more sessions by
// id. Membership is an ordered list with no duplicates; dangling session
// ids are tolerated and filtered at read time by the repository.
type Project struct {
	id          valueobjects.ProjectID
	name        string
	description string
	tags        []string
	metadata    map[string]any
	sessionIDs  []string
	createdAt   time.Time
	updatedAt   time.Time
	version     int

	events []events.DomainEvent
}

// NewProject creates a new project with business rule validation
func NewProject(name, description string, tags []string, metadata map[string]any) (*Project, error) {
	if name == "" {
		return nil, pkgerrors.NewValidation("project name cannot be empty")
	}

	if metadata == nil {
		metadata = make(map[string]any)
	}

	now := time.Now()
	p := &Project{
		id:          valueobjects.NewProjectID(),
		name:        name,
		description: description,
		tags:        dedupeStrings(tags),
		metadata:    cloneMetadata(metadata),
		sessionIDs:  []string{},
		createdAt:   now,
		updatedAt:   now,
		version:     1,
		events:      []events.DomainEvent{},
	}

	p.addEvent(events.NewProjectCreated(p.id.String(), name, p.GetTags(), now))

	return p, nil
}

// ID returns the project's unique identifier
func (p *Project) ID() valueobjects.ProjectID {
	return p.id
}

// Name returns the project name
func (p *Project) Name() string {
	return p.name
}

// Description returns the project description
func (p *Project) Description() string {
	return p.description
}

// CreatedAt returns the creation timestamp
func (p *Project) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns the last modification timestamp
func (p *Project) UpdatedAt() time.Time {
	return p.updatedAt
}

// Version returns the project's version, bumped on every content change
func (p *Project) Version() int {
	return p.version
}

// GetTags returns a copy of the project's tags
func (p *Project) GetTags() []string {
	return cloneStrings(p.tags)
}

// GetMetadata returns a copy of the project's metadata map
func (p *Project) GetMetadata() map[string]any {
	return cloneMetadata(p.metadata)
}

// SessionIDs returns a copy of the ordered session membership list
func (p *Project) SessionIDs() []string {
	return cloneStrings(p.sessionIDs)
}

// HasSession reports whether the session is a member of this project
func (p *Project) HasSession(sessionID string) bool {
	return containsString(p.sessionIDs, sessionID)
}

// Rename changes the project name
func (p *Project) Rename(name string) error {
	if name == "" {
		return pkgerrors.NewValidation("project name cannot be empty")
	}
	if name == p.name {
		return nil
	}
	p.name = name
	p.touch()
	p.addEvent(events.NewProjectUpdated(p.id.String(), "name", p.updatedAt))
	return nil
}

// UpdateDescription changes the project description
func (p *Project) UpdateDescription(description string) {
	if description == p.description {
		return
	}
	p.description = description
	p.touch()
	p.addEvent(events.NewProjectUpdated(p.id.String(), "description", p.updatedAt))
}

// AddTag adds a tag. Re-adding an existing tag is a no-op.
func (p *Project) AddTag(tag string) error {
	if tag == "" {
		return pkgerrors.NewValidation("tag cannot be empty")
	}
	if containsString(p.tags, tag) {
		return nil
	}
	p.tags = append(p.tags, tag)
	p.touch()
	p.addEvent(events.NewProjectUpdated(p.id.String(), "tags", p.updatedAt))
	return nil
}

// RemoveTag removes a tag. Removing an absent tag is a no-op.
func (p *Project) RemoveTag(tag string) {
	if !containsString(p.tags, tag) {
		return
	}
	kept := make([]string, 0, len(p.tags))
	for _, t := range p.tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	p.tags = kept
	p.touch()
	p.addEvent(events.NewProjectUpdated(p.id.String(), "tags", p.updatedAt))
}

// SetMetadata sets a metadata key. Writing an identical value is a no-op.
func (p *Project) SetMetadata(key string, value any) error {
	if key == "" {
		return pkgerrors.NewValidation("metadata key cannot be empty")
	}
	if existing, ok := p.metadata[key]; ok && metadataValueEqual(existing, value) {
		return nil
	}
	p.metadata[key] = value
	p.touch()
	p.addEvent(events.NewProjectUpdated(p.id.String(), "metadata", p.updatedAt))
	return nil
}

// AddSession appends a session to the membership list. Adding an already
// present session is a no-op; the list never holds duplicates. Returns
// true when membership changed.
func (p *Project) AddSession(sessionID string) bool {
	if sessionID == "" || containsString(p.sessionIDs, sessionID) {
		return false
	}
	p.sessionIDs = append(p.sessionIDs, sessionID)
	p.touch()
	p.addEvent(events.NewSessionAddedToProject(p.id.String(), sessionID, p.updatedAt))
	return true
}

// RemoveSession removes a session from the membership list. Returns true
// when membership changed.
func (p *Project) RemoveSession(sessionID string) bool {
	if !containsString(p.sessionIDs, sessionID) {
		return false
	}
	kept := make([]string, 0, len(p.sessionIDs))
	for _, id := range p.sessionIDs {
		if id != sessionID {
			kept = append(kept, id)
		}
	}
	p.sessionIDs = kept
	p.touch()
	p.addEvent(events.NewSessionRemovedFromProject(p.id.String(), sessionID, p.updatedAt))
	return true
}

// GetUncommittedEvents returns the events recorded since the last commit
func (p *Project) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// MarkEventsAsCommitted clears the recorded events after publishing
func (p *Project) MarkEventsAsCommitted() {
	p.events = []events.DomainEvent{}
}

func (p *Project) addEvent(event events.DomainEvent) {
	p.events = append(p.events, event)
}

func (p *Project) touch() {
	now := time.Now()
	if now.After(p.updatedAt) {
		p.updatedAt = now
	}
	p.version++
}

// ProjectDocument is the on-disk JSON representation of a Project
type ProjectDocument struct {
	ProjectID   string         `json:"project_id"`
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
	Sessions    []string       `json:"sessions"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// ToDocument returns the lossless document form of the project
func (p *Project) ToDocument() ProjectDocument {
	return ProjectDocument{
		ProjectID:   p.id.String(),
		Name:        p.name,
		Description: p.description,
		Tags:        p.GetTags(),
		Metadata:    p.GetMetadata(),
		Sessions:    p.SessionIDs(),
		CreatedAt:   formatTime(p.createdAt),
		UpdatedAt:   formatTime(p.updatedAt),
	}
}

// ProjectFromDocument reconstructs a project from its document form.
// Missing keys are defaulted; only an absent name is a validation
// failure. Duplicate session ids in the document are collapsed.
func ProjectFromDocument(doc ProjectDocument) (*Project, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	id := valueobjects.NewProjectID()
	if doc.ProjectID != "" {
		parsed, err := valueobjects.ParseProjectID(doc.ProjectID)
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

	return &Project{
		id:          id,
		name:        doc.Name,
		description: doc.Description,
		tags:        dedupeStrings(doc.Tags),
		metadata:    cloneMetadata(metadata),
		sessionIDs:  dedupeStrings(doc.Sessions),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     1,
		events:      []events.DomainEvent{},
	}, nil
}
