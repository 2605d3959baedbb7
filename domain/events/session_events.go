package events

import "time"

// SessionCreated is emitted when a new session is created.
// Keywords carry the tokens extracted from the searchable text so index
// listeners do not have to re-tokenize.
type SessionCreated struct {
	BaseEvent
	SessionID string   `json:"sessionId"`
	Name      string   `json:"name"`
	Keywords  []string `json:"keywords"`
	Tags      []string `json:"tags"`
}

// NewSessionCreated creates a new session created event
func NewSessionCreated(sessionID, name string, keywords, tags []string, at time.Time) SessionCreated {
	return SessionCreated{
		BaseEvent: newBase(sessionID, TypeSessionCreated, at),
		SessionID: sessionID,
		Name:      name,
		Keywords:  keywords,
		Tags:      tags,
	}
}

// SessionUpdated is emitted when session content changes
type SessionUpdated struct {
	BaseEvent
	SessionID string `json:"sessionId"`
	Field     string `json:"field"`
}

// NewSessionUpdated creates a new session updated event
func NewSessionUpdated(sessionID, field string, at time.Time) SessionUpdated {
	return SessionUpdated{
		BaseEvent: newBase(sessionID, TypeSessionUpdated, at),
		SessionID: sessionID,
		Field:     field,
	}
}

// SessionTagsChanged is emitted when the tag set of a session changes.
// Old and New carry the full before/after sets so the tag index can be
// patched without a rebuild.
type SessionTagsChanged struct {
	BaseEvent
	SessionID string   `json:"sessionId"`
	Old       []string `json:"old"`
	New       []string `json:"new"`
}

// NewSessionTagsChanged creates a new tags changed event
func NewSessionTagsChanged(sessionID string, old, updated []string, at time.Time) SessionTagsChanged {
	return SessionTagsChanged{
		BaseEvent: newBase(sessionID, TypeSessionTagsChanged, at),
		SessionID: sessionID,
		Old:       old,
		New:       updated,
	}
}

// SessionDeleted is emitted when a session is removed from the store
type SessionDeleted struct {
	BaseEvent
	SessionID string `json:"sessionId"`
}

// NewSessionDeleted creates a new session deleted event
func NewSessionDeleted(sessionID string, at time.Time) SessionDeleted {
	return SessionDeleted{
		BaseEvent: newBase(sessionID, TypeSessionDeleted, at),
		SessionID: sessionID,
	}
}

// ResultSaved is emitted when an analysis result is stored for a session
type ResultSaved struct {
	BaseEvent
	SessionID  string `json:"sessionId"`
	ResultID   string `json:"resultId"`
	ResultType string `json:"resultType"`
	Version    int    `json:"version"`
}

// NewResultSaved creates a new result saved event
func NewResultSaved(sessionID, resultID, resultType string, version int, at time.Time) ResultSaved {
	return ResultSaved{
		BaseEvent:  newBase(sessionID, TypeResultSaved, at),
		SessionID:  sessionID,
		ResultID:   resultID,
		ResultType: resultType,
		Version:    version,
	}
}
