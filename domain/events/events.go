package events

import "time"

// Event type identifiers used by dispatch and logging.
const (
	TypeProjectCreated            = "project.created"
	TypeProjectUpdated            = "project.updated"
	TypeProjectDeleted            = "project.deleted"
	TypeSessionCreated            = "session.created"
	TypeSessionUpdated            = "session.updated"
	TypeSessionTagsChanged        = "session.tags_changed"
	TypeSessionDeleted            = "session.deleted"
	TypeSessionAddedToProject     = "project.session_added"
	TypeSessionRemovedFromProject = "project.session_removed"
	TypeResultSaved               = "session.result_saved"
)

// DomainEvent is implemented by all events raised by the entity model
type DomainEvent interface {
	// GetEventType returns the event type identifier
	GetEventType() string

	// GetAggregateID returns the ID of the entity the event belongs to
	GetAggregateID() string

	// GetTimestamp returns when the event occurred
	GetTimestamp() time.Time
}

// BaseEvent provides common fields for all domain events
type BaseEvent struct {
	AggregateID string    `json:"aggregateId"`
	EventType   string    `json:"eventType"`
	Timestamp   time.Time `json:"timestamp"`
}

// GetEventType returns the event type
func (e BaseEvent) GetEventType() string {
	return e.EventType
}

// GetAggregateID returns the aggregate ID
func (e BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

// GetTimestamp returns the event timestamp
func (e BaseEvent) GetTimestamp() time.Time {
	return e.Timestamp
}

func newBase(aggregateID, eventType string, at time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   at,
	}
}
