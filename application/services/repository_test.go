package services

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aeroxkoki/sailing-sub005/domain/core/entities"
	"github.com/aeroxkoki/sailing-sub005/infrastructure/messaging"
	"github.com/aeroxkoki/sailing-sub005/infrastructure/persistence/jsonfile"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

func newTestRepository(t *testing.T) (*Repository, *jsonfile.Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := jsonfile.New(fs, "/base", jsonfile.DurablePolicy{}, zap.NewNop())
	repo := NewRepository(store, messaging.NewBus(zap.NewNop()), zap.NewNop(), nil)
	return repo, store, fs
}

func TestRepository_SessionCRUD(t *testing.T) {
	repo, _, fs := newTestRepository(t)
	ctx := context.Background()

	session, err := repo.CreateSession(ctx, "Morning Practice", "light wind", []string{"practice"}, map[string]any{"venue": "enoshima"})
	require.NoError(t, err)
	id := session.ID().String()

	t.Run("persists the session file", func(t *testing.T) {
		exists, err := afero.Exists(fs, "/base/sessions/"+id+".json")

		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("writes the metadata snapshot", func(t *testing.T) {
		exists, err := afero.Exists(fs, "/base/metadata/"+id+".json")

		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("reads come from the cache, not disk", func(t *testing.T) {
		require.NoError(t, fs.Remove("/base/sessions/"+id+".json"))

		cached, ok := repo.GetSession(id)

		assert.True(t, ok)
		assert.Equal(t, "Morning Practice", cached.Name())
	})

	t.Run("unknown id reads as missing, never an error", func(t *testing.T) {
		_, ok := repo.GetSession("unknown")

		assert.False(t, ok)
	})

	t.Run("update persists and bumps the entity", func(t *testing.T) {
		err := repo.UpdateSession(ctx, id, func(s *entities.Session) error {
			return s.Rename("Evening Practice")
		})

		require.NoError(t, err)
		cached, _ := repo.GetSession(id)
		assert.Equal(t, "Evening Practice", cached.Name())

		exists, err := afero.Exists(fs, "/base/sessions/"+id+".json")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("update of unknown id is NotFound", func(t *testing.T) {
		err := repo.UpdateSession(ctx, "unknown", func(s *entities.Session) error { return nil })

		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("delete removes file and cache entry", func(t *testing.T) {
		removed, err := repo.DeleteSession(ctx, id, false)

		require.NoError(t, err)
		assert.True(t, removed)
		_, ok := repo.GetSession(id)
		assert.False(t, ok)

		exists, err := afero.Exists(fs, "/base/sessions/"+id+".json")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete of unknown id returns false", func(t *testing.T) {
		removed, err := repo.DeleteSession(ctx, id, false)

		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestRepository_ProjectCRUD(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()

	project, err := repo.CreateProject(ctx, "Spring Series", "", []string{"season"}, nil)
	require.NoError(t, err)
	id := project.ID().String()

	t.Run("get returns the cached project", func(t *testing.T) {
		cached, ok := repo.GetProject(id)

		assert.True(t, ok)
		assert.Equal(t, "Spring Series", cached.Name())
	})

	t.Run("list is sorted by name", func(t *testing.T) {
		_, err := repo.CreateProject(ctx, "Autumn Series", "", nil, nil)
		require.NoError(t, err)

		projects := repo.GetProjects()

		require.Len(t, projects, 2)
		assert.Equal(t, "Autumn Series", projects[0].Name())
		assert.Equal(t, "Spring Series", projects[1].Name())
	})

	t.Run("delete removes the project", func(t *testing.T) {
		removed, err := repo.DeleteProject(ctx, id)

		require.NoError(t, err)
		assert.True(t, removed)
		_, ok := repo.GetProject(id)
		assert.False(t, ok)
	})
}

func TestRepository_TagIndexMaintenance(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()

	session, err := repo.CreateSession(ctx, "S1", "", []string{"a", "b"}, nil)
	require.NoError(t, err)
	id := session.ID().String()

	t.Run("creation feeds the tag index", func(t *testing.T) {
		assert.Equal(t, []string{id}, repo.SessionsByTag("a"))
		assert.Equal(t, []string{id}, repo.SessionsByTag("b"))
	})

	t.Run("clearing a tag empties its bucket but keeps it available", func(t *testing.T) {
		require.NoError(t, repo.UpdateSessionTags(ctx, id, []string{"a"}))

		assert.Empty(t, repo.SessionsByTag("b"))
		assert.Equal(t, []string{id}, repo.SessionsByTag("a"))
		assert.Contains(t, repo.AvailableTags(), "b")
	})

	t.Run("deletion drops the session from all buckets", func(t *testing.T) {
		_, err := repo.DeleteSession(ctx, id, false)
		require.NoError(t, err)

		assert.Empty(t, repo.SessionsByTag("a"))
		assert.Contains(t, repo.AvailableTags(), "a")
	})
}

func TestRepository_Reload(t *testing.T) {
	repo, store, fs := newTestRepository(t)
	ctx := context.Background()

	s1, err := repo.CreateSession(ctx, "Tokyo Bay Practice", "", []string{"race"}, nil)
	require.NoError(t, err)
	_, err = repo.CreateProject(ctx, "P1", "", nil, nil)
	require.NoError(t, err)

	t.Run("rebuilds the cache from disk", func(t *testing.T) {
		fresh := NewRepository(store, nil, zap.NewNop(), nil)

		require.NoError(t, fresh.Reload(ctx))

		_, ok := fresh.GetSession(s1.ID().String())
		assert.True(t, ok)
		assert.Len(t, fresh.GetProjects(), 1)
		assert.Equal(t, []string{s1.ID().String()}, fresh.SessionsByTag("race"))
	})

	t.Run("a corrupt file is skipped, not fatal", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/base/sessions/corrupt.json", []byte("{broken"), 0o644))
		require.NoError(t, afero.WriteFile(fs, "/base/sessions/noname.json", []byte(`{"description":"missing name"}`), 0o644))

		fresh := NewRepository(store, nil, zap.NewNop(), nil)
		require.NoError(t, fresh.Reload(ctx))

		assert.Len(t, fresh.GetSessions(), 1)
	})

	t.Run("reload retires stale keyword entries", func(t *testing.T) {
		require.NoError(t, repo.UpdateSession(ctx, s1.ID().String(), func(s *entities.Session) error {
			return s.Rename("Enoshima Run")
		}))

		// Additive index still knows the old name until reload
		_, known := repo.KeywordIndex().Lookup("tokyo")
		assert.True(t, known)

		require.NoError(t, repo.Reload(ctx))

		_, known = repo.KeywordIndex().Lookup("tokyo")
		assert.False(t, known)
		_, known = repo.KeywordIndex().Lookup("enoshima")
		assert.True(t, known)
	})
}

func TestRepository_DeleteSessionChildren(t *testing.T) {
	repo, store, fs := newTestRepository(t)
	ctx := context.Background()

	session, err := repo.CreateSession(ctx, "S", "", nil, nil)
	require.NoError(t, err)
	id := session.ID().String()
	require.NoError(t, store.SaveChild(ctx, "results", id, "r1", map[string]any{"x": 1}))

	t.Run("children survive by default", func(t *testing.T) {
		_, err := repo.DeleteSession(ctx, id, false)
		require.NoError(t, err)

		exists, err := afero.Exists(fs, "/base/results/"+id+"/r1.json")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("opt-in cascade removes them", func(t *testing.T) {
		session2, err := repo.CreateSession(ctx, "S2", "", nil, nil)
		require.NoError(t, err)
		id2 := session2.ID().String()
		require.NoError(t, store.SaveChild(ctx, "results", id2, "r1", map[string]any{"x": 1}))

		_, err = repo.DeleteSession(ctx, id2, true)
		require.NoError(t, err)

		exists, err := afero.Exists(fs, "/base/results/"+id2+"/r1.json")
		require.NoError(t, err)
		assert.False(t, exists)
		exists, err = afero.Exists(fs, "/base/metadata/"+id2+".json")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestRepository_SessionData(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()

	session, err := repo.CreateSession(ctx, "S", "", nil, nil)
	require.NoError(t, err)
	id := session.ID().String()

	payload := map[string]any{"points": []any{map[string]any{"lat": 35.3, "lon": 139.48}}}
	require.NoError(t, repo.SaveSessionData(ctx, id, payload))

	t.Run("round trips the opaque payload", func(t *testing.T) {
		var out map[string]any
		require.NoError(t, repo.LoadSessionData(ctx, id, &out))

		assert.Contains(t, out, "points")
	})

	t.Run("records the data file on the session", func(t *testing.T) {
		cached, _ := repo.GetSession(id)

		assert.Equal(t, "data/"+id+".json", cached.DataFile())
	})

	t.Run("unknown session is NotFound", func(t *testing.T) {
		err := repo.SaveSessionData(ctx, "unknown", payload)

		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestRepository_MetadataCache(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()

	session, err := repo.CreateSession(ctx, "S", "", nil, map[string]any{"venue": "tokyo"})
	require.NoError(t, err)
	id := session.ID().String()

	metadata, ok := repo.GetSessionMetadata(id)
	require.True(t, ok)
	assert.Equal(t, "tokyo", metadata["venue"])

	require.NoError(t, repo.UpdateSession(ctx, id, func(s *entities.Session) error {
		return s.SetMetadata("venue", "enoshima")
	}))

	metadata, ok = repo.GetSessionMetadata(id)
	require.True(t, ok)
	assert.Equal(t, "enoshima", metadata["venue"])
}
