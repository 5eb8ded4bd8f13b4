package dataset

import (
	"math/rand"
	"time"
)

// Subset names for training-sample partitioning.
const (
	SplitTrain = "train"
	SplitVal   = "val"
	SplitTest  = "test"
)

// Split thresholds: a uniform draw below trainThreshold is train, below
// valThreshold is val, anything else test (80/10/10 in expectation). The
// draw is independent per sample, so actual proportions wander for small
// datasets.
const (
	trainThreshold = 0.8
	valThreshold   = 0.9
)

// Splitter assigns samples to subsets by independent random draw. Seed 0
// is time-seeded and explicitly non-reproducible; any other seed
// reproduces the same assignment sequence.
type Splitter struct {
	rng *rand.Rand
}

// NewSplitter creates a Splitter from a seed.
func NewSplitter(seed int64) *Splitter {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Splitter{rng: rand.New(rand.NewSource(seed))}
}

// Assign draws the next sample's subset.
func (sp *Splitter) Assign() string {
	switch v := sp.rng.Float64(); {
	case v < trainThreshold:
		return SplitTrain
	case v < valThreshold:
		return SplitVal
	default:
		return SplitTest
	}
}
