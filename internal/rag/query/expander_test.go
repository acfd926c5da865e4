package query

import (
	"testing"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultExpander(t *testing.T) *Expander {
	t.Helper()
	e, err := NewExpander(config.DefaultRephraseRules(), DefaultMaxVariations)
	require.NoError(t, err)
	return e
}

func TestExpand(t *testing.T) {
	e := newDefaultExpander(t)

	tests := []struct {
		name     string
		question string
		want     []string
	}{
		{
			name:     "cost rephrasing",
			question: "How much does TSA cost?",
			want:     []string{"How much does TSA cost?", "how much does tsa cost", "what is the cost of tsa"},
		},
		{
			name:     "contraction",
			question: "What's the practice schedule?",
			want:     []string{"What's the practice schedule?", "whats the practice schedule", "what is the practice schedule"},
		},
		{
			name:     "tell me about",
			question: "Tell me about summer camp",
			want:     []string{"Tell me about summer camp", "tell me about summer camp", "what is summer camp"},
		},
		{
			name:     "already normalized yields singleton",
			question: "uniform sizes",
			want:     []string{"uniform sizes"},
		},
		{
			name:     "empty question",
			question: "",
			want:     []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Expand(tt.question))
		})
	}
}

func TestExpand_DeterministicAndContainsOriginal(t *testing.T) {
	e := newDefaultExpander(t)
	questions := []string{"How much is tuition?", "what's up", "Where's the field?", "??", "Tell me about TSA!!"}
	for _, q := range questions {
		first := e.Expand(q)
		second := e.Expand(q)
		assert.Equal(t, first, second)
		assert.Equal(t, q, first[0])
		assert.LessOrEqual(t, len(first), DefaultMaxVariations)

		seen := map[string]bool{}
		for _, v := range first {
			assert.False(t, seen[v], "duplicate variation %q", v)
			seen[v] = true
		}
	}
}

func TestExpand_RespectsMax(t *testing.T) {
	rules := []config.RephraseRule{
		{Pattern: `a`, Replacement: "b"},
		{Pattern: `a`, Replacement: "c"},
		{Pattern: `a`, Replacement: "d"},
	}
	e, err := NewExpander(rules, 2)
	require.NoError(t, err)
	got := e.Expand("A?")
	assert.Equal(t, []string{"A?", "a"}, got)
}

func TestNewExpander_BadPattern(t *testing.T) {
	_, err := NewExpander([]config.RephraseRule{{Pattern: `(`, Replacement: ""}}, 5)
	assert.Error(t, err)
}

func TestStripPunctuation(t *testing.T) {
	assert.Equal(t, "whats the cost of u10 soccer", StripPunctuation("  What's the cost of U-10... soccer?? "))
}
