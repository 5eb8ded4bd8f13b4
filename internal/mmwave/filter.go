package mmwave

import "math"

const (
	// DefaultStabilizationThreshold is the step-to-step position delta
	// (meters) under which the filter is considered settled.
	DefaultStabilizationThreshold = 0.05

	// StabilizationUndetermined marks a track whose estimates never
	// settled within its length. Not an error: short tracks and genuinely
	// erratic subjects both land here.
	StabilizationUndetermined = -1
)

// FilteredTrack pairs a track with the smoothed state sequence produced by
// a MotionFilter run over its centroids. Estimates[i] is the posterior
// after folding in Entries[i+1]; the initial state (first centroid, zero
// velocity) is the step-0 baseline and is not recorded as an estimate.
type FilteredTrack struct {
	Track     *Track
	Params    FilterParams
	Estimates []StateEstimate

	// StabilizedStep is the 1-based index of the first estimate whose
	// position moved less than the threshold from the previous step, or
	// StabilizationUndetermined.
	StabilizedStep int
}

// FilterTrack runs a constant-velocity Kalman filter over the track's
// centroid sequence: initialize at the first centroid with zero velocity,
// then predict+update once per subsequent entry. Zero- and one-entry
// tracks yield an empty estimate list.
func FilterTrack(track *Track, params FilterParams, stabilizationThreshold float64) FilteredTrack {
	ft := FilteredTrack{
		Track:          track,
		Params:         params,
		StabilizedStep: StabilizationUndetermined,
	}
	if len(track.Entries) < 2 {
		return ft
	}
	if stabilizationThreshold <= 0 {
		stabilizationThreshold = DefaultStabilizationThreshold
	}

	kf := NewMotionFilter(track.Entries[0].Centroid, params)
	prev := kf.State().Position()

	ft.Estimates = make([]StateEstimate, 0, len(track.Entries)-1)
	for _, e := range track.Entries[1:] {
		kf.Predict()
		kf.Update(Point{X: e.Centroid.X, Y: e.Centroid.Y})

		est := kf.State()
		ft.Estimates = append(ft.Estimates, est)

		pos := est.Position()
		if ft.StabilizedStep == StabilizationUndetermined && pos.Distance(prev) < stabilizationThreshold {
			ft.StabilizedStep = len(ft.Estimates)
		}
		prev = pos
	}

	return ft
}

// RMSE returns the root-mean-square ground-plane distance between the
// recorded estimates and the raw centroids they smoothed. Returns false
// when the track produced no estimates, in which case the track carries no
// residual score at all — a single observation says nothing about filter
// agreement.
func (ft *FilteredTrack) RMSE() (float64, bool) {
	if len(ft.Estimates) == 0 {
		return 0, false
	}
	var sum float64
	for i, est := range ft.Estimates {
		d := est.Position().HorizontalDistance(ft.Track.Entries[i+1].Centroid)
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(ft.Estimates))), true
}
