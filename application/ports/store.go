package ports

import (
	"context"
)

// Kind names one entity family and doubles as the subdirectory each
// family's documents live in.
type Kind string

const (
	KindProject    Kind = "projects"
	KindSession    Kind = "sessions"
	KindData       Kind = "data"
	KindState      Kind = "states"
	KindAnnotation Kind = "annotations"
	KindResult     Kind = "results"
	KindMetadata   Kind = "metadata"
)

// DocumentStore is the persistence port: one JSON document per entity,
// addressed by kind and id. Implementations decide how save failures are
// surfaced (durable vs best-effort, selected at construction).
//
// This is a port in hexagonal architecture - the domain doesn't know
// about the implementation.
type DocumentStore interface {
	// Save persists a document (create or update), whole-file overwrite
	Save(ctx context.Context, kind Kind, id string, doc any) error

	// Load reads a document into out; returns a NotFound error when absent
	Load(ctx context.Context, kind Kind, id string, out any) error

	// Delete removes a document; false when it did not exist
	Delete(ctx context.Context, kind Kind, id string) (bool, error)

	// ListIDs returns the ids of every stored document of a kind
	ListIDs(ctx context.Context, kind Kind) ([]string, error)

	// SaveChild persists a per-parent document at <kind>/<parentID>/<id>.json
	SaveChild(ctx context.Context, kind Kind, parentID, id string, doc any) error

	// LoadChild reads a per-parent document
	LoadChild(ctx context.Context, kind Kind, parentID, id string, out any) error

	// DeleteChild removes a per-parent document; false when absent
	DeleteChild(ctx context.Context, kind Kind, parentID, id string) (bool, error)

	// ListChildIDs returns the ids of every per-parent document
	ListChildIDs(ctx context.Context, kind Kind, parentID string) ([]string, error)

	// DeleteChildren removes the whole per-parent subtree, returning the
	// number of documents removed
	DeleteChildren(ctx context.Context, kind Kind, parentID string) (int, error)
}
