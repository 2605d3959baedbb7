package entities

import (
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// validate is shared by all document constructors
var validate = validator.New()

// Timestamps are stored as ISO-8601 strings. The store does not enforce a
// timezone, so documents written by older tooling without a zone suffix
// must still parse.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// formatTime renders a timestamp for a document
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// parseTime parses a document timestamp, defaulting to now when the value
// is missing or unreadable (forward compatibility, never fatal)
func parseTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return fallback
}

// validateDocument runs struct validation and maps failures to the
// domain ValidationError type
func validateDocument(doc any) error {
	if err := validate.Struct(doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.NewValidation(err.Error()), "invalid document")
	}
	return nil
}

// dedupeStrings trims, de-duplicates and drops empty tags while
// preserving first-appearance order
func dedupeStrings(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// sameTagSet compares two tag slices as sets (order-irrelevant)
func sameTagSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[tag] = true
	}
	for _, tag := range b {
		if !set[tag] {
			return false
		}
	}
	return true
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func cloneStrings(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// cloneMetadata copies the top level of a metadata map. Values are
// treated as opaque and may be shared; callers never mutate them in
// place, they replace whole keys through SetMetadata.
func cloneMetadata(metadata map[string]any) map[string]any {
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}

// metadataValueEqual reports whether a metadata write would be a no-op
func metadataValueEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
