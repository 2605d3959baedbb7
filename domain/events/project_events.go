package events

import "time"

// ProjectCreated is emitted when a new project is created
type ProjectCreated struct {
	BaseEvent
	ProjectID string   `json:"projectId"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
}

// NewProjectCreated creates a new project created event
func NewProjectCreated(projectID, name string, tags []string, at time.Time) ProjectCreated {
	return ProjectCreated{
		BaseEvent: newBase(projectID, TypeProjectCreated, at),
		ProjectID: projectID,
		Name:      name,
		Tags:      tags,
	}
}

// ProjectUpdated is emitted when project content changes
type ProjectUpdated struct {
	BaseEvent
	ProjectID string `json:"projectId"`
	Field     string `json:"field"`
}

// NewProjectUpdated creates a new project updated event
func NewProjectUpdated(projectID, field string, at time.Time) ProjectUpdated {
	return ProjectUpdated{
		BaseEvent: newBase(projectID, TypeProjectUpdated, at),
		ProjectID: projectID,
		Field:     field,
	}
}

// ProjectDeleted is emitted when a project is removed from the store
type ProjectDeleted struct {
	BaseEvent
	ProjectID string `json:"projectId"`
}

// NewProjectDeleted creates a new project deleted event
func NewProjectDeleted(projectID string, at time.Time) ProjectDeleted {
	return ProjectDeleted{
		BaseEvent: newBase(projectID, TypeProjectDeleted, at),
		ProjectID: projectID,
	}
}

// SessionAddedToProject is emitted when a session joins a project
type SessionAddedToProject struct {
	BaseEvent
	ProjectID string `json:"projectId"`
	SessionID string `json:"sessionId"`
}

// NewSessionAddedToProject creates a new membership event
func NewSessionAddedToProject(projectID, sessionID string, at time.Time) SessionAddedToProject {
	return SessionAddedToProject{
		BaseEvent: newBase(projectID, TypeSessionAddedToProject, at),
		ProjectID: projectID,
		SessionID: sessionID,
	}
}

// SessionRemovedFromProject is emitted when a session leaves a project
type SessionRemovedFromProject struct {
	BaseEvent
	ProjectID string `json:"projectId"`
	SessionID string `json:"sessionId"`
}

// NewSessionRemovedFromProject creates a new membership event
func NewSessionRemovedFromProject(projectID, sessionID string, at time.Time) SessionRemovedFromProject {
	return SessionRemovedFromProject{
		BaseEvent: newBase(projectID, TypeSessionRemovedFromProject, at),
		ProjectID: projectID,
		SessionID: sessionID,
	}
}
