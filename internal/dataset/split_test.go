package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitterOnlyKnownSubsets(t *testing.T) {
	t.Parallel()

	sp := NewSplitter(1)
	counts := map[string]int{}
	for i := 0; i < 5000; i++ {
		counts[sp.Assign()]++
	}

	require.Len(t, counts, 3)
	for _, name := range []string{SplitTrain, SplitVal, SplitTest} {
		assert.Greater(t, counts[name], 0, name)
	}

	// Independent draws land near 80/10/10 in expectation; wide margins
	// keep this from flaking on the fixed seed.
	assert.InDelta(t, 4000, counts[SplitTrain], 300)
	assert.InDelta(t, 500, counts[SplitVal], 150)
	assert.InDelta(t, 500, counts[SplitTest], 150)
}

func TestSplitterReproducibleUnderFixedSeed(t *testing.T) {
	t.Parallel()

	a, b := NewSplitter(77), NewSplitter(77)
	for i := 0; i < 200; i++ {
		assert.Equal(t, a.Assign(), b.Assign(), "draw %d", i)
	}
}
