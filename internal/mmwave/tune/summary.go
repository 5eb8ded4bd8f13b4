package tune

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a search's trial errors for build reporting.
type Summary struct {
	Count  int
	Mean   float64
	Stddev float64
	Min    float64
	Max    float64
}

// Summarize computes trial-error statistics. The zero Summary is returned
// for an empty history.
func Summarize(trials []Trial) Summary {
	if len(trials) == 0 {
		return Summary{}
	}

	errs := make([]float64, len(trials))
	min, max := math.Inf(1), math.Inf(-1)
	for i, t := range trials {
		errs[i] = t.Error
		min = math.Min(min, t.Error)
		max = math.Max(max, t.Error)
	}

	s := Summary{
		Count: len(trials),
		Mean:  stat.Mean(errs, nil),
		Min:   min,
		Max:   max,
	}
	if len(errs) > 1 {
		s.Stddev = stat.StdDev(errs, nil)
	}
	return s
}
