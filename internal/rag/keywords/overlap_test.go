package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"tuition", "u10", "soccer"}, Keywords("What is the tuition for U-10 soccer? Soccer!"))
	assert.Empty(t, Keywords("is it ok to go?"))
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name     string
		question string
		passage  string
		want     float64
	}{
		{"full overlap", "monthly tuition price", "The monthly tuition price is $150.", 1.0},
		{"half overlap", "tuition refund", "Tuition is due on the first.", 0.5},
		{"none", "tuition refund", "Practice starts at 5pm.", 0.0},
		{"no question keywords", "is it?", "anything at all", 0.0},
		{"punctuation ignored", "what's the pick-up time", "Pickup time is 6:30.", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Overlap(tt.question, tt.passage), 1e-9)
		})
	}
}

func TestOverlap_Bounded(t *testing.T) {
	inputs := []string{"", "a b c", "tuition tuition tuition", "Soccer, soccer; SOCCER", "schedule fees uniforms"}
	for _, q := range inputs {
		for _, p := range inputs {
			got := Overlap(q, p)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	}
}

func TestBoost_NeverExceedsOne(t *testing.T) {
	for _, sim := range []float64{0, 0.4, 0.85, 0.99, 1.0} {
		for _, kw := range []float64{0, 0.5, 1.0} {
			assert.LessOrEqual(t, Boost(sim, kw, 0.2), 1.0)
		}
	}
	assert.InDelta(t, 0.6, Boost(0.5, 0.5, 0.2), 1e-9)
	assert.Equal(t, 1.0, Boost(0.95, 1.0, 0.2))
}
