package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSearch(t *testing.T) (*SearchService, *Repository) {
	t.Helper()
	repo, _, _ := newTestRepository(t)
	return NewSearchService(repo, zap.NewNop(), nil), repo
}

func TestSearchService_TagAlgebra(t *testing.T) {
	search, repo := newTestSearch(t)
	ctx := context.Background()

	s1, err := repo.CreateSession(ctx, "S1", "", []string{"race", "practice"}, nil)
	require.NoError(t, err)
	s2, err := repo.CreateSession(ctx, "S2", "", []string{"race"}, nil)
	require.NoError(t, err)
	id1, id2 := s1.ID().String(), s2.ID().String()

	t.Run("match all intersects buckets", func(t *testing.T) {
		ids := search.SearchSessions(ctx, "", []string{"race", "practice"}, true)

		assert.Equal(t, []string{id1}, ids)
	})

	t.Run("match any unions buckets", func(t *testing.T) {
		ids := search.SearchSessions(ctx, "", []string{"race", "practice"}, false)

		assert.ElementsMatch(t, []string{id1, id2}, ids)
	})

	t.Run("unknown tag narrows to empty under match all", func(t *testing.T) {
		ids := search.SearchSessions(ctx, "", []string{"race", "never-seen"}, true)

		assert.Empty(t, ids)
	})

	t.Run("no query and no tags returns everything", func(t *testing.T) {
		ids := search.SearchSessions(ctx, "", nil, false)

		assert.ElementsMatch(t, []string{id1, id2}, ids)
	})
}

func TestSearchService_KeywordQuery(t *testing.T) {
	search, repo := newTestSearch(t)
	ctx := context.Background()

	s1, err := repo.CreateSession(ctx, "Tokyo Bay Practice", "", nil, nil)
	require.NoError(t, err)
	s2, err := repo.CreateSession(ctx, "Enoshima Practice", "", nil, nil)
	require.NoError(t, err)
	id1, id2 := s1.ID().String(), s2.ID().String()

	t.Run("single token finds matching sessions", func(t *testing.T) {
		assert.Equal(t, []string{id1}, search.SearchSessions(ctx, "tokyo", nil, false))
		assert.ElementsMatch(t, []string{id1, id2}, search.SearchSessions(ctx, "practice", nil, false))
	})

	t.Run("unknown token alone yields nothing", func(t *testing.T) {
		assert.Empty(t, search.SearchSessions(ctx, "xyz123", nil, false))
	})

	t.Run("recognized tokens narrow the base set", func(t *testing.T) {
		ids := search.SearchSessions(ctx, "practice tokyo", nil, false)

		assert.Equal(t, []string{id1}, ids)
	})

	t.Run("unrecognized tokens contribute no narrowing", func(t *testing.T) {
		// The first recognized token seeds the base set; xyz123 is
		// skipped entirely instead of emptying the result
		assert.Equal(t, []string{id1}, search.SearchSessions(ctx, "xyz123 tokyo", nil, false))
		assert.Equal(t, []string{id1}, search.SearchSessions(ctx, "tokyo xyz123", nil, false))
	})

	t.Run("query is tokenized like the indexer", func(t *testing.T) {
		ids := search.SearchSessions(ctx, "TOKYO-bay!", nil, false)

		assert.Equal(t, []string{id1}, ids)
	})
}

func TestSearchService_CombinedQueryAndTags(t *testing.T) {
	search, repo := newTestSearch(t)
	ctx := context.Background()

	s1, err := repo.CreateSession(ctx, "Tokyo Bay Practice", "", []string{"race"}, nil)
	require.NoError(t, err)
	_, err = repo.CreateSession(ctx, "Tokyo Harbor Cruise", "", []string{"cruise"}, nil)
	require.NoError(t, err)

	ids := search.SearchSessions(ctx, "tokyo", []string{"race"}, false)

	assert.Equal(t, []string{s1.ID().String()}, ids)
}

func TestSearchService_DeletedSessionsAreFiltered(t *testing.T) {
	search, repo := newTestSearch(t)
	ctx := context.Background()

	s1, err := repo.CreateSession(ctx, "Tokyo Bay Practice", "", nil, nil)
	require.NoError(t, err)

	_, err = repo.DeleteSession(ctx, s1.ID().String(), false)
	require.NoError(t, err)

	// The keyword index still holds the stale id until reload, but the
	// result set only ever contains live sessions
	assert.Empty(t, search.SearchSessions(ctx, "tokyo", nil, false))
}
