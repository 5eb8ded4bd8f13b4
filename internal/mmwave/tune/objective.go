// Package tune selects the motion filter's noise parameters for one
// sample. The objective (mean one-step-ahead prediction error across the
// sample's tracks) is treated as a black box behind the Objective
// interface, so the bounded Bayesian search in search.go never touches
// filter internals and can be swapped for another strategy wholesale.
package tune

import (
	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

// DefaultMaxEntries caps how many entries of each track the objective
// replays. Prediction error past the first few transitions says more about
// the subject's gait than about the filter, and the cap keeps the tuning
// cost flat regardless of track length.
const DefaultMaxEntries = 5

// Objective scores a candidate parameter triple. Lower is better; the
// search minimizes it.
type Objective interface {
	Evaluate(params mmwave.FilterParams) float64
}

// PredictionObjective measures how well a constant-velocity filter with
// the candidate parameters anticipates each track's next centroid. Every
// track with at least one entry is replayed independently: predict, score
// the predicted position against the observed centroid, then update. The
// result is the mean error over all scored steps of all tracks.
type PredictionObjective struct {
	Tracks     []mmwave.Track
	MaxEntries int // entries replayed per track; DefaultMaxEntries when <= 0
}

var _ Objective = (*PredictionObjective)(nil)

// Evaluate returns the mean one-step prediction error under params.
// Single-entry tracks replay zero transitions and contribute nothing; when
// no track contributes a step the objective is a neutral zero rather than
// a division by zero.
func (o *PredictionObjective) Evaluate(params mmwave.FilterParams) float64 {
	maxEntries := o.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	var total float64
	var steps int
	for i := range o.Tracks {
		entries := o.Tracks[i].Entries
		if len(entries) == 0 {
			continue
		}
		if len(entries) > maxEntries {
			entries = entries[:maxEntries]
		}

		kf := mmwave.NewMotionFilter(entries[0].Centroid, params)
		for _, e := range entries[1:] {
			kf.Predict()
			total += kf.State().Position().HorizontalDistance(e.Centroid)
			steps++
			kf.Update(mmwave.Point{X: e.Centroid.X, Y: e.Centroid.Y})
		}
	}

	if steps == 0 {
		return 0
	}
	return total / float64(steps)
}
