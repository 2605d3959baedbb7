package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroxkoki/sailing-sub005/domain/core/valueobjects"
	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

func TestNewSession(t *testing.T) {
	t.Run("creates session with defaults", func(t *testing.T) {
		session, err := NewSession("Morning Practice", "light wind", []string{"practice"}, nil)

		require.NoError(t, err)
		assert.False(t, session.ID().IsEmpty())
		assert.Equal(t, "Morning Practice", session.Name())
		assert.Equal(t, StatusNew, session.Status())
		assert.Equal(t, []string{"practice"}, session.GetTags())
		assert.Equal(t, session.CreatedAt(), session.UpdatedAt())
		assert.Equal(t, 1, session.Version())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSession("", "", nil, nil)

		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("collapses duplicate tags", func(t *testing.T) {
		session, err := NewSession("S", "", []string{"race", "race", "wind"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"race", "wind"}, session.GetTags())
	})
}

func TestSession_TagMutatorsAreIdempotent(t *testing.T) {
	session, err := NewSession("S", "", []string{"race"}, nil)
	require.NoError(t, err)
	before := session.UpdatedAt()

	t.Run("re-adding existing tag does not bump updatedAt", func(t *testing.T) {
		require.NoError(t, session.AddTag("race"))

		assert.Equal(t, before, session.UpdatedAt())
		assert.Equal(t, []string{"race"}, session.GetTags())
	})

	t.Run("removing absent tag does not bump updatedAt", func(t *testing.T) {
		session.RemoveTag("missing")

		assert.Equal(t, before, session.UpdatedAt())
	})

	t.Run("setting identical tag set in different order is a no-op", func(t *testing.T) {
		require.NoError(t, session.AddTag("wind"))
		afterAdd := session.UpdatedAt()

		session.SetTags([]string{"wind", "race"})

		assert.Equal(t, afterAdd, session.UpdatedAt())
	})

	t.Run("real tag change bumps updatedAt", func(t *testing.T) {
		time.Sleep(time.Millisecond)
		session.SetTags([]string{"regatta"})

		assert.True(t, session.UpdatedAt().After(before))
		assert.Equal(t, []string{"regatta"}, session.GetTags())
	})
}

func TestSession_MetadataMutators(t *testing.T) {
	session, err := NewSession("S", "", nil, map[string]any{"wind": "north"})
	require.NoError(t, err)
	before := session.UpdatedAt()

	t.Run("writing identical value is a no-op", func(t *testing.T) {
		require.NoError(t, session.SetMetadata("wind", "north"))

		assert.Equal(t, before, session.UpdatedAt())
	})

	t.Run("removing absent key is a no-op", func(t *testing.T) {
		session.RemoveMetadata("missing")

		assert.Equal(t, before, session.UpdatedAt())
	})

	t.Run("new value bumps updatedAt", func(t *testing.T) {
		time.Sleep(time.Millisecond)
		require.NoError(t, session.SetMetadata("wind", "south"))

		assert.True(t, session.UpdatedAt().After(before))
		assert.Equal(t, "south", session.GetMetadata()["wind"])
	})

	t.Run("rejects empty key", func(t *testing.T) {
		err := session.SetMetadata("", "x")

		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestSession_ResultRefs(t *testing.T) {
	session, err := NewSession("S", "", nil, nil)
	require.NoError(t, err)

	session.AddResultRef("r1")
	session.AddResultRef("r1")
	session.AddResultRef("r2")

	assert.Equal(t, []string{"r1", "r2"}, session.ResultIDs())

	session.RemoveResultRef("r1")
	assert.Equal(t, []string{"r2"}, session.ResultIDs())
}

func TestSession_SearchableText(t *testing.T) {
	session, err := NewSession("Tokyo Bay", "evening run", []string{"race"}, map[string]any{
		"venue": "enoshima",
		"laps":  3,
	})
	require.NoError(t, err)

	text := session.SearchableText()

	assert.Contains(t, text, "Tokyo Bay")
	assert.Contains(t, text, "evening run")
	assert.Contains(t, text, "race")
	assert.Contains(t, text, "enoshima")
	// Non-string metadata values are not searchable
	assert.NotContains(t, text, "3")
}

func TestSession_DocumentRoundTrip(t *testing.T) {
	session, err := NewSession("Tokyo Bay Practice", "desc", []string{"race", "practice"}, map[string]any{"venue": "tokyo"})
	require.NoError(t, err)
	rating, err := valueobjects.NewRating(4)
	require.NoError(t, err)
	session.SetRating(rating)
	require.NoError(t, session.SetStatus(StatusActive))
	session.AddResultRef("r1")

	doc := session.ToDocument()
	restored, err := SessionFromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, doc, restored.ToDocument())
}

func TestSessionFromDocument(t *testing.T) {
	t.Run("defaults missing keys", func(t *testing.T) {
		session, err := SessionFromDocument(SessionDocument{Name: "S"})

		require.NoError(t, err)
		assert.False(t, session.ID().IsEmpty())
		assert.Equal(t, StatusNew, session.Status())
		assert.Empty(t, session.GetTags())
		assert.NotNil(t, session.GetMetadata())
		assert.Empty(t, session.ResultIDs())
	})

	t.Run("missing name is a validation failure", func(t *testing.T) {
		_, err := SessionFromDocument(SessionDocument{})

		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("accepts timestamps without timezone", func(t *testing.T) {
		session, err := SessionFromDocument(SessionDocument{
			Name:      "S",
			CreatedAt: "2026-05-01T10:30:00",
			UpdatedAt: "2026-05-01T11:00:00.123456",
		})

		require.NoError(t, err)
		assert.Equal(t, 2026, session.CreatedAt().Year())
		assert.True(t, session.UpdatedAt().After(session.CreatedAt()))
	})

	t.Run("rejects out of range rating", func(t *testing.T) {
		_, err := SessionFromDocument(SessionDocument{Name: "S", Rating: 9})

		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})
}
