package index

import (
	"sync"

	"github.com/aeroxkoki/sailing-sub005/domain/services"
)

// KeywordIndex is an inverted index from normalized text tokens to the
// set of session ids whose searchable text contains them. Writes are
// additive: re-indexing a session adds its current tokens but does not
// retract tokens it no longer produces. Stale entries are retired only
// by a full Rebuild. This staleness window is documented behavior, not
// a defect: lookups are refreshed on every write, just not retracted
// without a bulk reload.
type KeywordIndex struct {
	mu       sync.RWMutex
	analyzer services.TextAnalyzer
	tokens   map[string]map[string]struct{}
}

// NewKeywordIndex creates an empty inverted index over the analyzer
func NewKeywordIndex(analyzer services.TextAnalyzer) *KeywordIndex {
	return &KeywordIndex{
		analyzer: analyzer,
		tokens:   make(map[string]map[string]struct{}),
	}
}

// Rebuild replaces the whole index from a session-id to searchable-text
// mapping. This is the only operation that retires stale tokens.
func (i *KeywordIndex) Rebuild(searchableText map[string]string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.tokens = make(map[string]map[string]struct{})
	for id, text := range searchableText {
		i.indexLocked(id, text)
	}
}

// IndexSession adds the session's current tokens to the index
func (i *KeywordIndex) IndexSession(sessionID, searchableText string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexLocked(sessionID, searchableText)
}

// Lookup returns the set of session ids indexed under the token, and
// whether the token is known to the index at all
func (i *KeywordIndex) Lookup(token string) (map[string]struct{}, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	bucket, ok := i.tokens[token]
	if !ok {
		return nil, false
	}
	out := make(map[string]struct{}, len(bucket))
	for id := range bucket {
		out[id] = struct{}{}
	}
	return out, true
}

// Tokenize exposes the analyzer so search queries normalize identically
// to indexed text
func (i *KeywordIndex) Tokenize(text string) []string {
	return i.analyzer.Tokenize(text)
}

// TokenCount returns the number of distinct indexed tokens
func (i *KeywordIndex) TokenCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.tokens)
}

func (i *KeywordIndex) indexLocked(sessionID, text string) {
	for _, token := range i.analyzer.Tokenize(text) {
		bucket, ok := i.tokens[token]
		if !ok {
			bucket = make(map[string]struct{})
			i.tokens[token] = bucket
		}
		bucket[sessionID] = struct{}{}
	}
}
