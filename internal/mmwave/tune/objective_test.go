package tune

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

// trackFromCentroids builds a track with one single-point cluster entry per
// centroid, frames counting up from 0.
func trackFromCentroids(id int, centroids ...mmwave.Point) mmwave.Track {
	tr := mmwave.Track{ID: id}
	for f, c := range centroids {
		tr.Entries = append(tr.Entries, mmwave.TrackEntry{
			FrameIndex: f,
			Label:      1,
			Points:     []mmwave.Point{c},
			Centroid:   c,
		})
	}
	return tr
}

func TestPredictionObjectiveNeutralWithoutContributingTracks(t *testing.T) {
	t.Parallel()

	params := mmwave.DefaultFilterParams()

	empty := &PredictionObjective{}
	assert.Zero(t, empty.Evaluate(params), "no tracks at all")

	// Tracks that exist but replay zero transitions still contribute
	// nothing; the objective must not divide by zero.
	single := &PredictionObjective{Tracks: []mmwave.Track{
		trackFromCentroids(0, mmwave.Point{X: 1, Y: 1}),
		{ID: 1},
	}}
	assert.Zero(t, single.Evaluate(params))
}

func TestPredictionObjectiveStationarySubjectScoresNearZero(t *testing.T) {
	t.Parallel()

	c := mmwave.Point{X: 2, Y: 3}
	obj := &PredictionObjective{Tracks: []mmwave.Track{
		trackFromCentroids(0, c, c, c, c),
	}}

	// A constant centroid is exactly what a zero-velocity initial state
	// predicts, so the mean prediction error stays tiny for any sane
	// parameter triple.
	err := obj.Evaluate(mmwave.DefaultFilterParams())
	assert.Less(t, err, 1e-6)
}

func TestPredictionObjectiveOrdersParameterQuality(t *testing.T) {
	t.Parallel()

	// Linear motion: +0.5 in X per frame. A filter that trusts its
	// measurements learns the velocity and predicts the next centroid
	// better than one that all but ignores them.
	tr := trackFromCentroids(0,
		mmwave.Point{X: 0}, mmwave.Point{X: 0.5}, mmwave.Point{X: 1.0},
		mmwave.Point{X: 1.5}, mmwave.Point{X: 2.0})
	obj := &PredictionObjective{Tracks: []mmwave.Track{tr}}

	responsive := obj.Evaluate(mmwave.FilterParams{ProcessNoise: 10, MeasurementNoise: 0.01, InitialCovariance: 25})
	sluggish := obj.Evaluate(mmwave.FilterParams{ProcessNoise: 1, MeasurementNoise: 10, InitialCovariance: 1})
	assert.Less(t, responsive, sluggish)
}

func TestPredictionObjectiveCapsReplayedEntries(t *testing.T) {
	t.Parallel()

	// Smooth for the first entries, then wildly erratic. With the cap the
	// erratic tail never reaches the filter, so the score matches the
	// smooth prefix alone.
	c := mmwave.Point{X: 1, Y: 1}
	long := trackFromCentroids(0, c, c, c, mmwave.Point{X: 50, Y: -50}, mmwave.Point{X: -50, Y: 50})
	prefix := trackFromCentroids(0, c, c, c)

	params := mmwave.DefaultFilterParams()
	capped := &PredictionObjective{Tracks: []mmwave.Track{long}, MaxEntries: 3}
	want := &PredictionObjective{Tracks: []mmwave.Track{prefix}}

	assert.InDelta(t, want.Evaluate(params), capped.Evaluate(params), 1e-12)
}
