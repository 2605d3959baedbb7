package valueobjects

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// ProjectID uniquely identifies a project.
// IDs are opaque strings; UUID4 is used for generated ids, but any
// non-empty string is accepted on import so round-tripped data keeps
// its original identifiers.
type ProjectID struct {
	value string
}

// NewProjectID generates a new unique project ID
func NewProjectID() ProjectID {
	return ProjectID{value: uuid.New().String()}
}

// ParseProjectID creates a ProjectID from an existing string
func ParseProjectID(value string) (ProjectID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ProjectID{}, pkgerrors.NewValidation("project ID cannot be empty")
	}
	return ProjectID{value: value}, nil
}

// String returns the string representation
func (id ProjectID) String() string {
	return id.value
}

// Equals checks if two project IDs are equal
func (id ProjectID) Equals(other ProjectID) bool {
	return id.value == other.value
}

// IsEmpty checks if the ID is empty
func (id ProjectID) IsEmpty() bool {
	return id.value == ""
}

// SessionID uniquely identifies a session.
type SessionID struct {
	value string
}

// NewSessionID generates a new unique session ID
func NewSessionID() SessionID {
	return SessionID{value: uuid.New().String()}
}

// ParseSessionID creates a SessionID from an existing string
func ParseSessionID(value string) (SessionID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return SessionID{}, pkgerrors.NewValidation("session ID cannot be empty")
	}
	return SessionID{value: value}, nil
}

// String returns the string representation
func (id SessionID) String() string {
	return id.value
}

// Equals checks if two session IDs are equal
func (id SessionID) Equals(other SessionID) bool {
	return id.value == other.value
}

// IsEmpty checks if the ID is empty
func (id SessionID) IsEmpty() bool {
	return id.value == ""
}

// ResultID uniquely identifies an analysis result within a session.
type ResultID struct {
	value string
}

// NewResultID generates a new unique result ID
func NewResultID() ResultID {
	return ResultID{value: uuid.New().String()}
}

// ParseResultID creates a ResultID from an existing string
func ParseResultID(value string) (ResultID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ResultID{}, pkgerrors.NewValidation("result ID cannot be empty")
	}
	return ResultID{value: value}, nil
}

// String returns the string representation
func (id ResultID) String() string {
	return id.value
}

// Equals checks if two result IDs are equal
func (id ResultID) Equals(other ResultID) bool {
	return id.value == other.value
}

// IsEmpty checks if the ID is empty
func (id ResultID) IsEmpty() bool {
	return id.value == ""
}

// StateID uniquely identifies a state snapshot within a session.
type StateID struct {
	value string
}

// NewStateID generates a new unique state ID
func NewStateID() StateID {
	return StateID{value: uuid.New().String()}
}

// ParseStateID creates a StateID from an existing string
func ParseStateID(value string) (StateID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return StateID{}, pkgerrors.NewValidation("state ID cannot be empty")
	}
	return StateID{value: value}, nil
}

// String returns the string representation
func (id StateID) String() string {
	return id.value
}

// IsEmpty checks if the ID is empty
func (id StateID) IsEmpty() bool {
	return id.value == ""
}

// AnnotationID uniquely identifies an annotation within a session.
type AnnotationID struct {
	value string
}

// NewAnnotationID generates a new unique annotation ID
func NewAnnotationID() AnnotationID {
	return AnnotationID{value: uuid.New().String()}
}

// ParseAnnotationID creates an AnnotationID from an existing string
func ParseAnnotationID(value string) (AnnotationID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return AnnotationID{}, pkgerrors.NewValidation("annotation ID cannot be empty")
	}
	return AnnotationID{value: value}, nil
}

// String returns the string representation
func (id AnnotationID) String() string {
	return id.value
}

// IsEmpty checks if the ID is empty
func (id AnnotationID) IsEmpty() bool {
	return id.value == ""
}
