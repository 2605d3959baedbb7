package services

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

func newTestResults(t *testing.T) (*ResultService, *Repository, string) {
	t.Helper()
	repo, store, _ := newTestRepository(t)
	svc := NewResultService(store, repo, nil, zap.NewNop())

	session, err := repo.CreateSession(context.Background(), "S", "", nil, nil)
	require.NoError(t, err)
	return svc, repo, session.ID().String()
}

func TestResultService_SaveResult(t *testing.T) {
	svc, repo, sid := newTestResults(t)
	ctx := context.Background()

	result, err := svc.SaveResult(ctx, sid, "Wind Analysis", "wind", map[string]any{"mean": 12.4}, nil)
	require.NoError(t, err)

	t.Run("starts at version one", func(t *testing.T) {
		assert.Equal(t, 1, result.Version())
		assert.False(t, result.IsCurrent())
	})

	t.Run("links the result to the session", func(t *testing.T) {
		session, _ := repo.GetSession(sid)

		assert.Contains(t, session.ResultIDs(), result.ID().String())
	})

	t.Run("round trips through the store", func(t *testing.T) {
		loaded, err := svc.GetResult(ctx, sid, result.ID().String())

		require.NoError(t, err)
		assert.Equal(t, result.ToDocument(), loaded.ToDocument())
	})

	t.Run("unknown session is NotFound", func(t *testing.T) {
		_, err := svc.SaveResult(ctx, "unknown", "n", "wind", "d", nil)

		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestResultService_UpdateResult(t *testing.T) {
	svc, _, sid := newTestResults(t)
	ctx := context.Background()

	result, err := svc.SaveResult(ctx, sid, "Wind Analysis", "wind", map[string]any{"mean": 12.4}, nil)
	require.NoError(t, err)
	rid := result.ID().String()

	t.Run("increments version by exactly one per update", func(t *testing.T) {
		updated, err := svc.UpdateResult(ctx, sid, rid, map[string]any{"mean": 13.0}, "", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Version())

		updated, err = svc.UpdateResult(ctx, sid, rid, map[string]any{"mean": 13.5}, "", nil)
		require.NoError(t, err)
		assert.Equal(t, 3, updated.Version())
	})

	t.Run("update never touches the current flag", func(t *testing.T) {
		require.NoError(t, svc.MarkAsCurrent(ctx, sid, rid, true))

		updated, err := svc.UpdateResult(ctx, sid, rid, map[string]any{"mean": 14.0}, "", nil)

		require.NoError(t, err)
		assert.True(t, updated.IsCurrent())
	})
}

func TestResultService_CurrentPromotion(t *testing.T) {
	svc, _, sid := newTestResults(t)
	ctx := context.Background()

	first, err := svc.SaveResult(ctx, sid, "Wind v1", "wind", "d1", nil)
	require.NoError(t, err)
	second, err := svc.SaveResult(ctx, sid, "Wind v2", "wind", "d2", nil)
	require.NoError(t, err)
	require.NoError(t, svc.MarkAsCurrent(ctx, sid, first.ID().String(), true))

	// Promotion is caller-driven: clear the old flag, then set the new one
	require.NoError(t, svc.MarkAsCurrent(ctx, sid, first.ID().String(), false))
	require.NoError(t, svc.MarkAsCurrent(ctx, sid, second.ID().String(), true))

	current, err := svc.GetCurrentResult(ctx, sid, "wind")
	require.NoError(t, err)
	assert.Equal(t, second.ID().String(), current.ID().String())
}

func TestResultService_GetResultVersions(t *testing.T) {
	svc, _, sid := newTestResults(t)
	ctx := context.Background()

	wind1, err := svc.SaveResult(ctx, sid, "Wind v1", "wind", "d1", nil)
	require.NoError(t, err)
	wind2, err := svc.SaveResult(ctx, sid, "Wind v2", "wind", "d2", nil)
	require.NoError(t, err)
	_, err = svc.SaveResult(ctx, sid, "Speed", "speed", "d3", nil)
	require.NoError(t, err)
	_, err = svc.UpdateResult(ctx, sid, wind2.ID().String(), "d2b", "", nil)
	require.NoError(t, err)

	versions, err := svc.GetResultVersions(ctx, sid, wind1.ID().String())

	require.NoError(t, err)
	require.Len(t, versions, 2, "only the wind slot is returned")
	assert.Equal(t, 1, versions[0].Version())
	assert.Equal(t, 2, versions[1].Version())
}

func TestResultService_DeleteResult(t *testing.T) {
	svc, repo, sid := newTestResults(t)
	ctx := context.Background()

	result, err := svc.SaveResult(ctx, sid, "Wind", "wind", "d", nil)
	require.NoError(t, err)
	rid := result.ID().String()

	removed, err := svc.DeleteResult(ctx, sid, rid)
	require.NoError(t, err)
	assert.True(t, removed)

	session, _ := repo.GetSession(sid)
	assert.NotContains(t, session.ResultIDs(), rid)

	removed, err = svc.DeleteResult(ctx, sid, rid)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestResultService_ListSkipsCorruptFiles(t *testing.T) {
	repo, store, fs := newTestRepository(t)
	svc := NewResultService(store, repo, nil, zap.NewNop())
	ctx := context.Background()

	session, err := repo.CreateSession(ctx, "S", "", nil, nil)
	require.NoError(t, err)
	sid := session.ID().String()
	_, err = svc.SaveResult(ctx, sid, "Wind", "wind", "d", nil)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/base/results/"+sid+"/corrupt.json", []byte("{broken"), 0o644))

	results, err := svc.ListResults(ctx, sid)

	require.NoError(t, err)
	assert.Len(t, results, 1)
}
