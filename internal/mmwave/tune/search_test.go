package tune

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

// funcObjective adapts a plain function for search tests.
type funcObjective func(mmwave.FilterParams) float64

func (f funcObjective) Evaluate(p mmwave.FilterParams) float64 { return f(p) }

// bowl is a smooth synthetic objective minimized at a point inside the
// default bounds.
func bowl(p mmwave.FilterParams) float64 {
	dq := (p.ProcessNoise - 20) / 49
	dr := (p.MeasurementNoise - 2) / 9.99
	dp := (p.InitialCovariance - 30) / 49
	return dq*dq + dr*dr + dp*dp
}

func TestSearchSpendsExactBudget(t *testing.T) {
	t.Parallel()

	cfg := DefaultSearchConfig(42)
	res := Search(funcObjective(bowl), cfg)

	require.Len(t, res.Trials, cfg.NumInitial+cfg.NumIterations)

	// The reported best is the minimum of the history.
	min := math.Inf(1)
	for _, tr := range res.Trials {
		min = math.Min(min, tr.Error)
	}
	assert.Equal(t, min, res.Best.Error)
}

func TestSearchStaysInsideBounds(t *testing.T) {
	t.Parallel()

	bounds := DefaultParamBounds()
	res := Search(funcObjective(bowl), DefaultSearchConfig(7))
	for _, tr := range res.Trials {
		p := tr.Params
		assert.GreaterOrEqual(t, p.ProcessNoise, bounds.ProcessNoise.Min)
		assert.LessOrEqual(t, p.ProcessNoise, bounds.ProcessNoise.Max)
		assert.GreaterOrEqual(t, p.MeasurementNoise, bounds.MeasurementNoise.Min)
		assert.LessOrEqual(t, p.MeasurementNoise, bounds.MeasurementNoise.Max)
		assert.GreaterOrEqual(t, p.InitialCovariance, bounds.InitialCovariance.Min)
		assert.LessOrEqual(t, p.InitialCovariance, bounds.InitialCovariance.Max)
	}
}

func TestSearchReproducibleUnderFixedSeed(t *testing.T) {
	t.Parallel()

	a := Search(funcObjective(bowl), DefaultSearchConfig(99))
	b := Search(funcObjective(bowl), DefaultSearchConfig(99))
	require.Equal(t, len(a.Trials), len(b.Trials))
	for i := range a.Trials {
		assert.Equal(t, a.Trials[i], b.Trials[i], "trial %d diverged", i)
	}
	assert.Equal(t, a.Best, b.Best)
}

func TestSearchImprovesOnWorstProbe(t *testing.T) {
	t.Parallel()

	// A weak guarantee matching the heuristic contract: the best trial on
	// a smooth bowl beats the worst of its own random probes by a wide
	// margin, showing the modelled iterations are doing work.
	res := Search(funcObjective(bowl), DefaultSearchConfig(3))

	worst := math.Inf(-1)
	for _, tr := range res.Trials[:DefaultNumInitial] {
		worst = math.Max(worst, tr.Error)
	}
	assert.Less(t, res.Best.Error, worst)
}

func TestSearchFlatObjectiveFallsBackToRandomProbes(t *testing.T) {
	t.Parallel()

	flat := funcObjective(func(mmwave.FilterParams) float64 { return 0.5 })
	cfg := DefaultSearchConfig(1)
	res := Search(flat, cfg)

	// The surrogate carries no signal on a flat objective; the search must
	// still spend its whole budget and return a defined best.
	require.Len(t, res.Trials, cfg.NumInitial+cfg.NumIterations)
	assert.Equal(t, 0.5, res.Best.Error)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	assert.Zero(t, Summarize(nil))

	trials := []Trial{{Error: 1}, {Error: 2}, {Error: 3}}
	s := Summarize(trials)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, 1.0, s.Stddev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Max)
}
