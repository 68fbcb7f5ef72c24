package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry_Representation(t *testing.T) {
	e := Entry{Question: "What is Scope Club?", Answer: "It is a robotics club."}

	assert.Equal(t, "Question: What is Scope Club? Answer: It is a robotics club.", e.Representation())
}

func TestEntry_Representation_Empty(t *testing.T) {
	assert.Equal(t, "Question:  Answer: ", Entry{}.Representation())
}

func TestCorpus_At(t *testing.T) {
	c := Corpus{
		{Question: "q0", Answer: "a0"},
		{Question: "q1", Answer: "a1"},
	}

	tests := []struct {
		name     string
		position int
		want     Entry
		ok       bool
	}{
		{"first", 0, c[0], true},
		{"last", 1, c[1], true},
		{"sentinel", -1, Entry{}, false},
		{"past end", 2, Entry{}, false},
		{"far past end", 100, Entry{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.At(tt.position)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCorpus_Len(t *testing.T) {
	assert.Equal(t, 0, Corpus(nil).Len())
	assert.Equal(t, 1, Corpus{{Question: "q", Answer: "a"}}.Len())
}

func TestCorpus_Representations(t *testing.T) {
	c := Corpus{
		{Question: "q0", Answer: "a0"},
		{Question: "q1", Answer: "a1"},
	}

	assert.Equal(t, []string{
		"Question: q0 Answer: a0",
		"Question: q1 Answer: a1",
	}, c.Representations())
}

func TestScoreFromDistance(t *testing.T) {
	assert.Equal(t, 1.0, ScoreFromDistance(0))
	assert.Equal(t, 0.5, ScoreFromDistance(1))
	assert.InDelta(t, 0.2, ScoreFromDistance(4), 1e-9)
}

func TestScoreFromDistance_Bounds(t *testing.T) {
	prev := ScoreFromDistance(0)
	for _, d := range []float32{0.001, 0.5, 1, 10, 1000, 1e9} {
		s := ScoreFromDistance(d)
		assert.Greater(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
		assert.Less(t, s, prev, "score must decrease as distance grows")
		prev = s
	}
}

func TestScoreFromDistance_Infinity(t *testing.T) {
	assert.Equal(t, 0.0, ScoreFromDistance(float32(math.Inf(1))))
}
