// Command trainset builds a training dataset from captured radar
// samples: each stored capture runs through the tracking pipeline, and
// the survivors are written back as fixed-size, split-assigned training
// samples under a new build run.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/radar.trainset/internal/config"
	"github.com/banshee-data/radar.trainset/internal/dataset"
	"github.com/banshee-data/radar.trainset/internal/mmwave"
	"github.com/banshee-data/radar.trainset/internal/mmwave/pipeline"
	"github.com/banshee-data/radar.trainset/internal/report"
	"github.com/banshee-data/radar.trainset/internal/version"
)

var (
	dbPath      = flag.String("db", "trainset.db", "Dataset SQLite database")
	configPath  = flag.String("config", "", "Tuning config JSON (built-in defaults when empty)")
	labelFlag   = flag.String("label", "", "Override the stored label on every sample")
	seed        = flag.Int64("seed", 1, "Base RNG seed for per-sample filter tuning")
	splitSeed   = flag.Int64("split-seed", 1, "Seed for train/val/test assignment (0 = time-seeded)")
	listen      = flag.String("listen", "", "Optional debug HTTP listen address (SQL browser)")
	reportPath  = flag.String("report", "", "Write the build QA report (HTML) to this path")
	plotDir     = flag.String("plot-dir", "", "Write per-sample selected-track plots (PNG) to this directory")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("trainset %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
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

	if err := store.Migrate(); err != nil {
		log.Fatalf("failed to migrate dataset db: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *listen != "" {
		mux := http.NewServeMux()
		if err := store.AttachBrowser(mux); err != nil {
			log.Fatalf("failed to attach SQL browser: %v", err)
		}
		server := &http.Server{Addr: *listen, Handler: mux}
		go func() {
			log.Printf("debug server on http://%s/debug/", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start debug server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("debug server shutdown error: %v", err)
			}
		}()
	}

	if *plotDir != "" {
		if err := os.MkdirAll(*plotDir, 0o755); err != nil {
			log.Fatalf("failed to create plot directory: %v", err)
		}
	}

	if err := run(ctx, store, tc); err != nil {
		log.Fatalf("build failed: %v", err)
	}
}

func run(ctx context.Context, store *dataset.Store, tc *config.TuningConfig) error {
	cfg := pipeline.FromTuning(tc, *seed)
	proc := pipeline.New(cfg)
	splitter := dataset.NewSplitter(*splitSeed)

	total, err := store.SampleCount()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling run config: %w", err)
	}
	if err := store.StartRun(runID, string(configJSON)); err != nil {
		return err
	}
	log.Printf("build run %s: %d samples, seed=%d split-seed=%d", runID, total, *seed, *splitSeed)

	stats := report.BuildStats{RunID: runID, Dropped: make(map[string]int)}
	processed := 0

	err = store.ForEachSample(func(rec dataset.SampleRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		processed++

		keypoints, err := store.Keypoints(rec.ID)
		if err != nil {
			return err
		}
		label := rec.Label
		if *labelFlag != "" {
			label = *labelFlag
		}

		res, err := proc.Process(pipeline.Sample{
			ID:        rec.ID,
			Label:     label,
			Points:    rec.Points,
			Keypoints: keypoints,
		})
		if errors.Is(err, pipeline.ErrSkipSample) {
			stats.Dropped[skipReason(err)]++
			return nil
		}
		if err != nil {
			return fmt.Errorf("processing sample %s: %w", rec.ID, err)
		}

		ts := dataset.TrainingSample{
			SampleID: res.SampleID,
			Label:    res.Label,
			Split:    splitter.Assign(),
			Points:   res.Points,
		}
		diag := dataset.ResultDiagnostics{
			Params:        res.Tuned,
			TuneError:     res.TuneError,
			RMSE:          res.RMSE,
			TrackCount:    res.TrackCount,
			SelectionKind: string(res.Selection.Kind),
		}
		if err := store.InsertResult(runID, ts, diag); err != nil {
			return err
		}
		stats.Kept++
		stats.Samples = append(stats.Samples, report.SampleStats{
			SampleID:      res.SampleID,
			Params:        res.Tuned,
			TuneError:     res.TuneError,
			RMSE:          res.RMSE,
			TrackCount:    res.TrackCount,
			SelectionKind: string(res.Selection.Kind),
		})

		if *plotDir != "" {
			if err := plotSelection(res, tc.GetStabilizationThreshold()); err != nil {
				// A failed plot is not worth losing the build over.
				log.Printf("plot for sample %s failed: %v", res.SampleID, err)
			}
		}

		if processed%50 == 0 {
			log.Printf("progress: %d/%d processed, %d kept", processed, total, stats.Kept)
		}
		return nil
	})
	if err != nil {
		return err
	}

	dropped := 0
	for _, n := range stats.Dropped {
		dropped += n
	}
	if err := store.FinishRun(runID, stats.Kept, dropped); err != nil {
		return err
	}

	counts, err := store.SplitCounts(runID)
	if err != nil {
		return err
	}
	log.Printf("build run %s complete: kept=%d dropped=%v splits=%v", runID, stats.Kept, stats.Dropped, counts)

	if *reportPath != "" {
		if err := report.WriteFile(*reportPath, stats); err != nil {
			return err
		}
		log.Printf("QA report written to %s", *reportPath)
	}
	return nil
}

// skipReason maps a skip sentinel to the bucket it is counted under.
func skipReason(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrNoTracks):
		return "no tracks"
	case errors.Is(err, pipeline.ErrNoKeypoints):
		return "no keypoints"
	case errors.Is(err, pipeline.ErrNoSelection):
		return "no selection"
	default:
		return "skipped"
	}
}

// plotSelection re-filters the winning entry set with the sample's tuned
// parameters and renders it next to its raw centroid path.
func plotSelection(res *pipeline.Result, stabThreshold float64) error {
	track := mmwave.Track{ID: res.Selection.Primary, Entries: res.Selection.Entries}
	filtered := []mmwave.FilteredTrack{mmwave.FilterTrack(&track, res.Tuned, stabThreshold)}
	path := filepath.Join(*plotDir, res.SampleID+".png")
	return report.PlotTracks(filtered, res.SampleID, path)
}
