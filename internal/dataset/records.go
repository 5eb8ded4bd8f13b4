// Package dataset persists capture samples and processed training samples
// in a SQLite database, and assigns finished samples to train/val/test
// subsets. The pipeline core knows nothing about storage; this package is
// the caller side of that boundary.
package dataset

import "github.com/banshee-data/radar.trainset/internal/mmwave"

// SampleRecord is the primary detection record for one capture: an
// unordered point array and an opaque label carried through to the output
// untouched.
type SampleRecord struct {
	ID     string
	Label  string
	Points []mmwave.Point
}

// KeypointRecord holds the auxiliary keypoint annotations for a sample.
// Only the per-sample median of these points is ever consumed, as the
// track selector's reference point.
type KeypointRecord struct {
	SampleID string
	Points   []mmwave.Point
}

// TrainingSample is one finished, fixed-cardinality output record.
type TrainingSample struct {
	SampleID string
	Label    string
	Split    string
	Points   []mmwave.Point
}

// ResultDiagnostics carries the per-sample pipeline metrics stored next to
// a training sample for build QA.
type ResultDiagnostics struct {
	Params        mmwave.FilterParams
	TuneError     float64
	RMSE          float64
	TrackCount    int
	SelectionKind string
}
