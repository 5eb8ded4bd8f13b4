// Command track-plot renders every track the pipeline finds in one
// stored sample: raw centroid paths dashed, tuned-filter estimates
// solid. Useful when a sample is being dropped or the wrong track keeps
// winning selection.
package main

import (
	"flag"
	"log"

	"github.com/banshee-data/radar.trainset/internal/config"
	"github.com/banshee-data/radar.trainset/internal/dataset"
	"github.com/banshee-data/radar.trainset/internal/mmwave"
	"github.com/banshee-data/radar.trainset/internal/mmwave/tune"
	"github.com/banshee-data/radar.trainset/internal/report"
)

var (
	dbPath     = flag.String("db", "trainset.db", "Dataset SQLite database")
	sampleID   = flag.String("sample", "", "Sample ID to plot (required)")
	configPath = flag.String("config", "", "Tuning config JSON (built-in defaults when empty)")
	seed       = flag.Int64("seed", 1, "RNG seed for filter tuning")
	output     = flag.String("o", "tracks.png", "Output PNG path")
)

func main() {
	flag.Parse()

	if *sampleID == "" {
		log.Fatal("-sample is required")
	}

	tc := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		tc, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}
	if err := tc.Validate(); err != nil {
		log.Fatalf("invalid tuning config: %v", err)
	}

	store, err := dataset.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open dataset db: %v", err)
	}
	defer store.Close()

	var sample *dataset.SampleRecord
	err = store.ForEachSample(func(rec dataset.SampleRecord) error {
		if rec.ID == *sampleID {
			sample = &rec
		}
		return nil
	})
	if err != nil {
		log.Fatalf("failed to read samples: %v", err)
	}
	if sample == nil {
		log.Fatalf("sample %s not found in %s", *sampleID, *dbPath)
	}

	// Segment, strip, cluster, associate.
	frames := mmwave.SplitFrames(sample.Points, tc.GetFrameCount())
	for i, f := range frames {
		frames[i] = mmwave.StripPlaceholders(f, mmwave.Point{}, tc.GetPlaceholderEps())
	}
	params := mmwave.ClusterParams{
		Eps:              tc.GetClusterEps(),
		MinPoints:        tc.GetClusterMinPoints(),
		HorizontalWeight: tc.GetHorizontalWeight(),
		VerticalWeight:   tc.GetVerticalWeight(),
	}
	frameLabels := make([][]int, len(frames))
	for i, f := range frames {
		frameLabels[i] = mmwave.ClusterFrame(f, params)
	}
	tracks := mmwave.BuildTracks(frames, frameLabels)
	if len(tracks) == 0 {
		log.Fatalf("sample %s produced no tracks", *sampleID)
	}

	// Tune once over all tracks, then filter each with the result.
	searchRes := tune.Search(
		&tune.PredictionObjective{Tracks: tracks, MaxEntries: tc.GetTuneMaxEntries()},
		tune.SearchConfig{
			Bounds:        tune.DefaultParamBounds(),
			NumInitial:    tc.GetTuneNumInitial(),
			NumIterations: tc.GetTuneNumIterations(),
			Seed:          *seed,
		},
	)
	log.Printf("tuned q=%.3f r=%.3f p0=%.3f err=%.4f",
		searchRes.Best.Params.ProcessNoise, searchRes.Best.Params.MeasurementNoise,
		searchRes.Best.Params.InitialCovariance, searchRes.Best.Error)

	filtered := make([]mmwave.FilteredTrack, len(tracks))
	for i := range tracks {
		filtered[i] = mmwave.FilterTrack(&tracks[i], searchRes.Best.Params, tc.GetStabilizationThreshold())
	}

	if err := report.PlotTracks(filtered, *sampleID, *output); err != nil {
		log.Fatalf("failed to render plot: %v", err)
	}
	log.Printf("wrote %d tracks to %s", len(filtered), *output)
}
