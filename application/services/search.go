package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/pkg/observability"
)

// SearchService resolves a free-text query plus a tag filter into a
// session-id result set via index algebra over the repository's derived
// indexes.
type SearchService struct {
	repo      *Repository
	logger    *zap.Logger
	collector *observability.Collector
}

// NewSearchService creates a search service over the repository
func NewSearchService(repo *Repository, logger *zap.Logger, collector *observability.Collector) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{repo: repo, logger: logger, collector: collector}
}

// SearchSessions returns the ids of sessions matching the query and tag
// filter. With neither supplied, every session id is returned. Tag
// buckets are intersected when matchAll is set, unioned otherwise; a
// query result and a tag result are always intersected with each other.
//
// Query evaluation seeds the base set from the first token present in
// the keyword index and narrows it with each subsequent recognized
// token. Tokens absent from the index contribute no narrowing, so a
// query made up entirely of unrecognized tokens yields an empty result.
// This precedence is load-bearing for existing callers and must not be
// changed to empty-on-any-unknown-token.
func (s *SearchService) SearchSessions(ctx context.Context, query string, tags []string, matchAll bool) []string {
	if s.collector != nil {
		s.collector.SearchesExecuted.Inc()
	}

	if query == "" && len(tags) == 0 {
		return s.repo.SessionIDs()
	}

	var queryResult map[string]struct{}
	haveQuery := query != ""
	if haveQuery {
		queryResult = s.evaluateQuery(query)
	}

	var tagResult map[string]struct{}
	haveTags := len(tags) > 0
	if haveTags {
		tagResult = s.evaluateTags(tags, matchAll)
	}

	var result map[string]struct{}
	switch {
	case haveQuery && haveTags:
		result = intersect(queryResult, tagResult)
	case haveQuery:
		result = queryResult
	default:
		result = tagResult
	}

	// The keyword index may hold stale ids for deleted sessions until
	// the next reload; only live sessions are returned.
	ids := make([]string, 0, len(result))
	for id := range result {
		if _, ok := s.repo.GetSession(id); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	s.logger.Debug("session search executed",
		zap.String("query", query),
		zap.Strings("tags", tags),
		zap.Bool("match_all", matchAll),
		zap.Int("results", len(ids)),
	)
	return ids
}

func (s *SearchService) evaluateQuery(query string) map[string]struct{} {
	keywordIndex := s.repo.KeywordIndex()

	var base map[string]struct{}
	seeded := false
	for _, token := range keywordIndex.Tokenize(query) {
		bucket, known := keywordIndex.Lookup(token)
		if !known {
			continue
		}
		if !seeded {
			base = bucket
			seeded = true
			continue
		}
		base = intersect(base, bucket)
	}

	if !seeded {
		return map[string]struct{}{}
	}
	return base
}

func (s *SearchService) evaluateTags(tags []string, matchAll bool) map[string]struct{} {
	tagIndex := s.repo.TagIndex()

	var result map[string]struct{}
	for i, tag := range tags {
		bucket := tagIndex.SessionSetByTag(tag)
		if i == 0 {
			result = bucket
			continue
		}
		if matchAll {
			result = intersect(result, bucket)
		} else {
			for id := range bucket {
				result[id] = struct{}{}
			}
		}
	}
	if result == nil {
		result = map[string]struct{}{}
	}
	return result
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(map[string]struct{})
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}
