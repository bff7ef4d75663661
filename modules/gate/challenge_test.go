package gate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleKeepsAllLabels(t *testing.T) {
	stage := testStages()[0]
	rng := rand.New(rand.NewSource(7))

	labels, correct := stage.Shuffle(rng)
	require.Len(t, labels, len(stage.Options))
	require.GreaterOrEqual(t, correct, 0)
	assert.Equal(t, "I work with technical documentation", labels[correct])

	seen := make(map[string]int)
	for _, l := range labels {
		seen[l]++
	}
	for _, opt := range stage.Options {
		assert.Equal(t, 1, seen[opt.Label], "option %q lost or duplicated", opt.Label)
	}
}

func TestShuffleCorrectPositionUniform(t *testing.T) {
	stage := testStages()[1]
	rng := rand.New(rand.NewSource(42))

	const trials = 4000
	counts := make([]int, len(stage.Options))
	for i := 0; i < trials; i++ {
		_, correct := stage.Shuffle(rng)
		counts[correct]++
	}

	// Expected 1000 per position; a generous band still catches a
	// biased permutation.
	for pos, n := range counts {
		assert.InDelta(t, trials/len(counts), n, 200, "position %d drawn %d times", pos, n)
	}
}
