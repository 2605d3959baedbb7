package services

import (
	"strings"
	"unicode"
)

// minTokenLength is the shortest token the keyword index will accept.
// Two-character fragments ("of", "by", boat class abbreviations) add
// noise without narrowing results.
const minTokenLength = 3

// TextAnalyzer provides text analysis capabilities for the domain
// This is a domain service that encapsulates text processing logic
type TextAnalyzer interface {
	// Tokenize breaks text into unique, normalized index tokens,
	// preserving first-appearance order
	Tokenize(text string) []string

	// TokenizeWords breaks text into a set of unique lowercase words
	TokenizeWords(text string) map[string]bool
}

// DefaultTextAnalyzer provides a default implementation of TextAnalyzer
type DefaultTextAnalyzer struct {
	stopWords map[string]bool
}

// NewDefaultTextAnalyzer creates a new text analyzer with common English stop words
func NewDefaultTextAnalyzer() *DefaultTextAnalyzer {
	return &DefaultTextAnalyzer{
		stopWords: getDefaultStopWords(),
	}
}

// Tokenize normalizes text for the keyword index: lower-cased, punctuation
// treated as whitespace, stop words and tokens shorter than three
// characters discarded. Order of first appearance is preserved so query
// evaluation is deterministic.
func (ta *DefaultTextAnalyzer) Tokenize(text string) []string {
	seen := make(map[string]bool)
	tokens := make([]string, 0)

	emit := func(word string) {
		if len(word) < minTokenLength || ta.stopWords[word] || seen[word] {
			return
		}
		seen[word] = true
		tokens = append(tokens, word)
	}

	var current strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			emit(current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		emit(current.String())
	}

	return tokens
}

// TokenizeWords breaks text into a set of unique lowercase words without
// applying the stop-word or length filters
func (ta *DefaultTextAnalyzer) TokenizeWords(text string) map[string]bool {
	words := make(map[string]bool)

	var current strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words[current.String()] = true
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words[current.String()] = true
	}

	return words
}

// getDefaultStopWords returns a set of common English stop words
func getDefaultStopWords() map[string]bool {
	stopWords := map[string]bool{
		"the": true, "be": true, "to": true, "of": true, "and": true,
		"a": true, "in": true, "that": true, "have": true, "i": true,
		"it": true, "for": true, "not": true, "on": true, "with": true,
		"he": true, "as": true, "you": true, "do": true, "at": true,
		"this": true, "but": true, "his": true, "by": true, "from": true,
		"they": true, "we": true, "say": true, "her": true, "she": true,
		"or": true, "an": true, "will": true, "my": true, "one": true,
		"all": true, "would": true, "there": true, "their": true, "what": true,
		"so": true, "up": true, "out": true, "if": true, "about": true,
		"who": true, "get": true, "which": true, "go": true, "me": true,
		"when": true, "make": true, "can": true, "like": true, "time": true,
		"no": true, "just": true, "him": true, "know": true, "take": true,
		"into": true, "year": true, "your": true, "good": true,
		"some": true, "could": true, "them": true, "see": true, "other": true,
		"than": true, "then": true, "now": true, "look": true, "only": true,
		"come": true, "its": true, "over": true, "think": true, "also": true,
		"back": true, "after": true, "use": true, "two": true, "how": true,
		"our": true, "first": true, "well": true, "way": true,
		"even": true, "new": true, "want": true, "because": true, "any": true,
		"these": true, "give": true, "day": true, "most": true, "us": true,
		"is": true, "was": true, "are": true, "been": true, "has": true,
		"had": true, "were": true, "said": true, "did": true, "having": true,
		"may": true, "am": true, "should": true, "too": true, "very": true,
	}
	return stopWords
}
