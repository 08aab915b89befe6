package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios(t *testing.T) {
	all := Scenarios()
	require.Len(t, all, 5)

	seen := map[string]bool{}
	for _, s := range all {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.BasicPrompt)
		assert.NotEmpty(t, s.EngineeredPrompt)
		assert.Greater(t, len(s.EngineeredPrompt), len(s.BasicPrompt))
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}

	// Mutating the returned slice must not leak into later calls.
	all[0].Title = "changed"
	assert.NotEqual(t, "changed", Scenarios()[0].Title)
}

func TestScenarioByID(t *testing.T) {
	s, ok := ScenarioByID("code-review")
	require.True(t, ok)
	assert.Equal(t, "Code Review Feedback", s.Title)

	_, ok = ScenarioByID("CODE-REVIEW")
	assert.True(t, ok)

	_, ok = ScenarioByID("missing")
	assert.False(t, ok)
}

func TestAnatomy(t *testing.T) {
	components := Anatomy()
	require.Len(t, components, 7)
	assert.Equal(t, []string{"Role", "Context", "Task", "Format", "Constraints", "Examples", "Tone"}, AnatomyNames())

	components[0].Name = "changed"
	assert.Equal(t, "Role", Anatomy()[0].Name)
}

func TestLibrarySeed(t *testing.T) {
	entries := LibrarySeed()
	require.NotEmpty(t, entries)

	ids := map[string]bool{}
	for _, e := range entries {
		assert.NotEmpty(t, e.Prompt)
		assert.NotEmpty(t, e.Tags)
		assert.False(t, ids[e.ID])
		ids[e.ID] = true
	}

	entries[0].Tags[0] = "changed"
	assert.NotEqual(t, "changed", LibrarySeed()[0].Tags[0])
}
