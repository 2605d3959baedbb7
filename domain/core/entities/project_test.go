package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

func TestNewProject(t *testing.T) {
	t.Run("creates project with defaults", func(t *testing.T) {
		project, err := NewProject("Spring Regatta", "season opener", []string{"regatta"}, nil)

		require.NoError(t, err)
		assert.False(t, project.ID().IsEmpty())
		assert.Equal(t, "Spring Regatta", project.Name())
		assert.Empty(t, project.SessionIDs())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProject("", "", nil, nil)

		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestProject_SessionMembership(t *testing.T) {
	project, err := NewProject("P", "", nil, nil)
	require.NoError(t, err)

	t.Run("add records membership in order", func(t *testing.T) {
		assert.True(t, project.AddSession("s1"))
		assert.True(t, project.AddSession("s2"))

		assert.Equal(t, []string{"s1", "s2"}, project.SessionIDs())
		assert.True(t, project.HasSession("s1"))
	})

	t.Run("adding twice is a no-op", func(t *testing.T) {
		before := project.UpdatedAt()

		assert.False(t, project.AddSession("s1"))

		assert.Equal(t, []string{"s1", "s2"}, project.SessionIDs())
		assert.Equal(t, before, project.UpdatedAt())
	})

	t.Run("remove restores prior membership", func(t *testing.T) {
		assert.True(t, project.RemoveSession("s1"))
		assert.Equal(t, []string{"s2"}, project.SessionIDs())

		assert.True(t, project.AddSession("s1"))
		assert.ElementsMatch(t, []string{"s1", "s2"}, project.SessionIDs())
	})

	t.Run("removing absent session is a no-op", func(t *testing.T) {
		before := project.UpdatedAt()

		assert.False(t, project.RemoveSession("missing"))

		assert.Equal(t, before, project.UpdatedAt())
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		assert.False(t, project.AddSession(""))
	})
}

func TestProject_DocumentRoundTrip(t *testing.T) {
	project, err := NewProject("P", "desc", []string{"season"}, map[string]any{"year": "2026"})
	require.NoError(t, err)
	project.AddSession("s1")
	project.AddSession("s2")

	doc := project.ToDocument()
	restored, err := ProjectFromDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, doc, restored.ToDocument())
}

func TestProjectFromDocument(t *testing.T) {
	t.Run("collapses duplicate session ids", func(t *testing.T) {
		project, err := ProjectFromDocument(ProjectDocument{
			Name:     "P",
			Sessions: []string{"s1", "s2", "s1"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"s1", "s2"}, project.SessionIDs())
	})

	t.Run("missing name is a validation failure", func(t *testing.T) {
		_, err := ProjectFromDocument(ProjectDocument{})

		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})
}
