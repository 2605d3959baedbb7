package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagIndex_Rebuild(t *testing.T) {
	idx := NewTagIndex()

	idx.Rebuild(map[string][]string{
		"s1": {"race", "practice"},
		"s2": {"race"},
	})

	assert.Equal(t, []string{"s1", "s2"}, idx.SessionsByTag("race"))
	assert.Equal(t, []string{"s1"}, idx.SessionsByTag("practice"))
	assert.Equal(t, []string{"practice", "race"}, idx.AvailableTags())
}

func TestTagIndex_Update(t *testing.T) {
	idx := NewTagIndex()
	idx.Update("s1", nil, []string{"race", "practice"})

	t.Run("moves session between buckets", func(t *testing.T) {
		idx.Update("s1", []string{"race", "practice"}, []string{"race", "regatta"})

		assert.Equal(t, []string{"s1"}, idx.SessionsByTag("race"))
		assert.Equal(t, []string{"s1"}, idx.SessionsByTag("regatta"))
		assert.Empty(t, idx.SessionsByTag("practice"))
	})

	t.Run("emptied buckets stay available", func(t *testing.T) {
		idx.Update("s1", []string{"race", "regatta"}, nil)

		assert.Empty(t, idx.SessionsByTag("race"))
		assert.Empty(t, idx.SessionsByTag("regatta"))
		// No-prune behavior: every tag ever seen stays listed
		assert.Equal(t, []string{"practice", "race", "regatta"}, idx.AvailableTags())
	})

	t.Run("unknown tag lookup is empty, not an error", func(t *testing.T) {
		assert.Empty(t, idx.SessionsByTag("never-seen"))
	})
}

func TestTagIndex_Remove(t *testing.T) {
	idx := NewTagIndex()
	idx.Update("s1", nil, []string{"race"})
	idx.Update("s2", nil, []string{"race"})

	idx.Remove("s1", []string{"race"})

	assert.Equal(t, []string{"s2"}, idx.SessionsByTag("race"))
	assert.Equal(t, []string{"race"}, idx.AvailableTags())
}
