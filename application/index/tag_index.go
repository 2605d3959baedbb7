// Package index maintains the derived in-memory structures the repository
// serves reads and searches from: a tag index, a keyword inverted index
// and a metadata passthrough cache. All three are rebuilt on bulk load and
// patched incrementally on writes.
package index

import (
	"sort"
	"sync"
)

// TagIndex maps a tag to the set of session ids currently carrying it.
// Buckets emptied by tag removal are retained, not pruned, so the
// available-tag list stays a stable superset within one process run: a
// tag must remain selectable even after its last session is untagged
// mid-edit.
type TagIndex struct {
	mu      sync.RWMutex
	buckets map[string]map[string]struct{}
}

// NewTagIndex creates an empty tag index
func NewTagIndex() *TagIndex {
	return &TagIndex{
		buckets: make(map[string]map[string]struct{}),
	}
}

// Rebuild replaces the whole index from a session-id to tags mapping
func (i *TagIndex) Rebuild(sessionTags map[string][]string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.buckets = make(map[string]map[string]struct{})
	for id, tags := range sessionTags {
		for _, tag := range tags {
			i.add(tag, id)
		}
	}
}

// Update patches the index after a tag mutation: the session id leaves
// the buckets of removed tags and joins the buckets of added tags.
// Bucket creation happens for newly seen tags; emptied buckets stay.
func (i *TagIndex) Update(sessionID string, oldTags, newTags []string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	newSet := make(map[string]struct{}, len(newTags))
	for _, tag := range newTags {
		newSet[tag] = struct{}{}
	}

	for _, tag := range oldTags {
		if _, kept := newSet[tag]; kept {
			continue
		}
		if bucket, ok := i.buckets[tag]; ok {
			delete(bucket, sessionID)
		}
	}

	for _, tag := range newTags {
		i.add(tag, sessionID)
	}
}

// Remove drops the session id from every bucket of the given tags.
// Used on session deletion; buckets are retained even when emptied.
func (i *TagIndex) Remove(sessionID string, tags []string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, tag := range tags {
		if bucket, ok := i.buckets[tag]; ok {
			delete(bucket, sessionID)
		}
	}
}

// SessionsByTag returns the session ids currently carrying the tag
func (i *TagIndex) SessionsByTag(tag string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	bucket, ok := i.buckets[tag]
	if !ok {
		return []string{}
	}
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SessionSetByTag returns the bucket as a set for search algebra
func (i *TagIndex) SessionSetByTag(tag string) map[string]struct{} {
	i.mu.RLock()
	defer i.mu.RUnlock()

	bucket, ok := i.buckets[tag]
	if !ok {
		return map[string]struct{}{}
	}
	out := make(map[string]struct{}, len(bucket))
	for id := range bucket {
		out[id] = struct{}{}
	}
	return out
}

// AvailableTags returns every tag ever indexed this process run, sorted,
// including tags whose buckets are currently empty
func (i *TagIndex) AvailableTags() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	tags := make([]string, 0, len(i.buckets))
	for tag := range i.buckets {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// BucketCount returns the number of tag buckets, empty ones included
func (i *TagIndex) BucketCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.buckets)
}

func (i *TagIndex) add(tag, sessionID string) {
	bucket, ok := i.buckets[tag]
	if !ok {
		bucket = make(map[string]struct{})
		i.buckets[tag] = bucket
	}
	bucket[sessionID] = struct{}{}
}
