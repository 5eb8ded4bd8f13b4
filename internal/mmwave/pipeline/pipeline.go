// Package pipeline wires the mmwave stages into a per-sample processor:
// segment, strip, cluster, associate, tune, filter, select, normalize.
// Samples are processed strictly sequentially; every bit of working state
// lives in the Process call frame and is released when the sample
// completes, so nothing leaks across samples.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/banshee-data/radar.trainset/internal/config"
	"github.com/banshee-data/radar.trainset/internal/mmwave"
	"github.com/banshee-data/radar.trainset/internal/mmwave/tune"
)

// Skip sentinels. The core's whole error taxonomy for well-formed input is
// "missing data, skip sample": callers test errors.Is(err, ErrSkipSample)
// and drop the sample, counting reasons as they go. Nothing here is fatal.
var (
	ErrSkipSample  = errors.New("sample skipped")
	ErrNoTracks    = fmt.Errorf("no tracks: %w", ErrSkipSample)
	ErrNoKeypoints = fmt.Errorf("no keypoints: %w", ErrSkipSample)
	ErrNoSelection = fmt.Errorf("no selection: %w", ErrSkipSample)
)

// Sample is one capture to process: the primary detection record (points
// plus an opaque passthrough label) and the auxiliary keypoint annotations
// whose median anchors track selection.
type Sample struct {
	ID        string
	Label     string
	Points    []mmwave.Point
	Keypoints []mmwave.Point
}

// Result is the denoised, fixed-cardinality training sample for one
// successfully processed capture, plus the diagnostics the build CLI
// records alongside it.
type Result struct {
	SampleID string
	Label    string
	Points   []mmwave.Point // exactly Config.SamplePoints long

	Tuned      mmwave.FilterParams
	TuneError  float64
	TrackCount int
	Selection  mmwave.Selection
	RMSE       float64 // residual of the primary selected track; 0 when unscored
}

// Config collects every stage's parameters. Build one from a TuningConfig
// with FromTuning, or start from DefaultConfig for tests and tools.
type Config struct {
	FrameCount             int
	PlaceholderEps         float64
	Cluster                mmwave.ClusterParams
	StabilizationThreshold float64
	TuneMaxEntries         int
	TuneNumInitial         int
	TuneNumIterations      int
	SamplePoints           int

	// Seed is the base RNG seed; each sample's tuning search runs on
	// Seed + its ordinal, so a single-threaded build is reproducible
	// end to end while samples still explore independently.
	Seed int64
}

// DefaultConfig returns the canonical stage parameters.
func DefaultConfig() Config {
	return Config{
		FrameCount:             mmwave.DefaultFrameCount,
		PlaceholderEps:         mmwave.DefaultPlaceholderEps,
		Cluster:                mmwave.DefaultClusterParams(),
		StabilizationThreshold: mmwave.DefaultStabilizationThreshold,
		TuneMaxEntries:         tune.DefaultMaxEntries,
		TuneNumInitial:         tune.DefaultNumInitial,
		TuneNumIterations:      tune.DefaultNumIterations,
		SamplePoints:           mmwave.DefaultSamplePoints,
	}
}

// FromTuning maps a loaded TuningConfig onto stage parameters.
func FromTuning(tc *config.TuningConfig, seed int64) Config {
	return Config{
		FrameCount:     tc.GetFrameCount(),
		PlaceholderEps: tc.GetPlaceholderEps(),
		Cluster: mmwave.ClusterParams{
			Eps:              tc.GetClusterEps(),
			MinPoints:        tc.GetClusterMinPoints(),
			HorizontalWeight: tc.GetHorizontalWeight(),
			VerticalWeight:   tc.GetVerticalWeight(),
		},
		StabilizationThreshold: tc.GetStabilizationThreshold(),
		TuneMaxEntries:         tc.GetTuneMaxEntries(),
		TuneNumInitial:         tc.GetTuneNumInitial(),
		TuneNumIterations:      tc.GetTuneNumIterations(),
		SamplePoints:           tc.GetSamplePoints(),
		Seed:                   seed,
	}
}

// Processor runs the pipeline over a sequence of samples. Not safe for
// concurrent use: the per-sample seed ordinal advances on every call.
type Processor struct {
	cfg     Config
	ordinal int64
}

// New creates a Processor. Zeroed Config fields fall back to defaults so a
// partially filled Config from a tool flag set still behaves.
func New(cfg Config) *Processor {
	def := DefaultConfig()
	if cfg.FrameCount < 1 {
		cfg.FrameCount = def.FrameCount
	}
	if cfg.PlaceholderEps <= 0 {
		cfg.PlaceholderEps = def.PlaceholderEps
	}
	if cfg.Cluster == (mmwave.ClusterParams{}) {
		cfg.Cluster = def.Cluster
	}
	if cfg.StabilizationThreshold <= 0 {
		cfg.StabilizationThreshold = def.StabilizationThreshold
	}
	if cfg.SamplePoints < 1 {
		cfg.SamplePoints = def.SamplePoints
	}
	return &Processor{cfg: cfg}
}

// Process runs one sample through every stage. A nil result with a
// wrapped ErrSkipSample means the sample produced no usable track and the
// caller should drop it; any other behavior on well-formed input is a bug.
func (p *Processor) Process(sample Sample) (*Result, error) {
	seed := p.cfg.Seed + p.ordinal
	p.ordinal++

	// Segment and strip.
	frames := mmwave.SplitFrames(sample.Points, p.cfg.FrameCount)
	for i, f := range frames {
		frames[i] = mmwave.StripPlaceholders(f, mmwave.Point{}, p.cfg.PlaceholderEps)
		tracef("sample=%s frame=%d points=%d stripped=%d", sample.ID, i, len(frames[i]), len(f)-len(frames[i]))
	}

	// Cluster each frame and associate across frames.
	frameLabels := make([][]int, len(frames))
	for i, f := range frames {
		frameLabels[i] = mmwave.ClusterFrame(f, p.cfg.Cluster)
	}
	tracks := mmwave.BuildTracks(frames, frameLabels)
	if len(tracks) == 0 {
		opsf("sample=%s dropped: no tracks from %d frames", sample.ID, len(frames))
		return nil, ErrNoTracks
	}

	// The reference point must exist before selection can run; checking
	// early avoids spending the tuning budget on a doomed sample.
	reference, ok := mmwave.MedianPoint(sample.Keypoints)
	if !ok {
		opsf("sample=%s dropped: no keypoint annotations", sample.ID)
		return nil, ErrNoKeypoints
	}

	// Tune the filter on this sample's tracks.
	searchRes := tune.Search(
		&tune.PredictionObjective{Tracks: tracks, MaxEntries: p.cfg.TuneMaxEntries},
		tune.SearchConfig{
			Bounds:        tune.DefaultParamBounds(),
			NumInitial:    p.cfg.TuneNumInitial,
			NumIterations: p.cfg.TuneNumIterations,
			Seed:          seed,
		},
	)
	diagf("sample=%s tuned q=%.3f r=%.3f p0=%.3f err=%.4f over %d trials",
		sample.ID, searchRes.Best.Params.ProcessNoise, searchRes.Best.Params.MeasurementNoise,
		searchRes.Best.Params.InitialCovariance, searchRes.Best.Error, len(searchRes.Trials))

	// Smooth every track with the tuned parameters.
	filtered := make([]mmwave.FilteredTrack, len(tracks))
	for i := range tracks {
		filtered[i] = mmwave.FilterTrack(&tracks[i], searchRes.Best.Params, p.cfg.StabilizationThreshold)
		tracef("sample=%s track=%d entries=%d stabilized=%d",
			sample.ID, tracks[i].ID, len(tracks[i].Entries), filtered[i].StabilizedStep)
	}

	selection, ok := mmwave.SelectTrack(filtered, reference)
	if !ok {
		opsf("sample=%s dropped: %d tracks but none scorable", sample.ID, len(tracks))
		return nil, ErrNoSelection
	}

	res := &Result{
		SampleID:   sample.ID,
		Label:      sample.Label,
		Points:     mmwave.NormalizePoints(selection.Points(), p.cfg.SamplePoints),
		Tuned:      searchRes.Best.Params,
		TuneError:  searchRes.Best.Error,
		TrackCount: len(tracks),
		Selection:  selection,
	}
	for i := range filtered {
		if filtered[i].Track.ID == selection.Primary {
			if rmse, ok := filtered[i].RMSE(); ok {
				res.RMSE = rmse
			}
			break
		}
	}

	diagf("sample=%s selection=%s primary=%d secondary=%d entries=%d",
		sample.ID, selection.Kind, selection.Primary, selection.Secondary, len(selection.Entries))
	return res, nil
}
