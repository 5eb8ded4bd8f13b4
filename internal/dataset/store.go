package dataset

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the dataset database: raw capture samples and their keypoint
// annotations on the input side, build runs and finished training samples
// on the output side.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the SQLite database at path. Call
// Migrate before using a fresh database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset db: %w", err)
	}
	// modernc's driver is not safe for concurrent writes over multiple
	// connections; the build is sequential anyway.
	db.SetMaxOpenConns(1)
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for the debug browser.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate applies all pending schema migrations from the embedded
// directory. Already-current databases are a no-op.
func (s *Store) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// migrateLogger implements migrate.Logger interface
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }

// InsertSample stores (or replaces) a primary detection record.
func (s *Store) InsertSample(rec SampleRecord) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO samples (sample_id, label, points) VALUES (?, ?, ?)`,
		rec.ID, rec.Label, EncodePointBlob(rec.Points),
	)
	if err != nil {
		return fmt.Errorf("inserting sample %s: %w", rec.ID, err)
	}
	return nil
}

// InsertKeypoints stores (or replaces) a sample's keypoint annotations.
func (s *Store) InsertKeypoints(rec KeypointRecord) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO keypoints (sample_id, points) VALUES (?, ?)`,
		rec.SampleID, EncodePointBlob(rec.Points),
	)
	if err != nil {
		return fmt.Errorf("inserting keypoints for %s: %w", rec.SampleID, err)
	}
	return nil
}

// Keypoints returns a sample's annotation points, or nil (no error) when
// the sample has none — absent keypoints are an expected skip condition,
// not a storage failure.
func (s *Store) Keypoints(sampleID string) ([]mmwave.Point, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT points FROM keypoints WHERE sample_id = ?`, sampleID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying keypoints for %s: %w", sampleID, err)
	}
	return DecodePointBlob(blob), nil
}

// SampleCount returns the number of stored capture samples.
func (s *Store) SampleCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM samples`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting samples: %w", err)
	}
	return n, nil
}

// ForEachSample iterates the stored capture samples in insertion order,
// decoding each point blob. A corrupt blob is reported to fn with nil
// Points so the pipeline can drop the sample through its normal path.
// Iteration stops on the first error returned by fn.
func (s *Store) ForEachSample(fn func(SampleRecord) error) error {
	rows, err := s.db.Query(`SELECT sample_id, label, points FROM samples ORDER BY created_at, sample_id`)
	if err != nil {
		return fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec SampleRecord
		var blob []byte
		if err := rows.Scan(&rec.ID, &rec.Label, &blob); err != nil {
			return fmt.Errorf("scanning sample row: %w", err)
		}
		rec.Points = DecodePointBlob(blob)
		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// StartRun records the beginning of a build run.
func (s *Store) StartRun(runID, configJSON string) error {
	_, err := s.db.Exec(
		`INSERT INTO build_runs (run_id, config_json) VALUES (?, ?)`,
		runID, configJSON,
	)
	if err != nil {
		return fmt.Errorf("starting run %s: %w", runID, err)
	}
	return nil
}

// FinishRun stamps a build run complete with its kept/dropped counts.
func (s *Store) FinishRun(runID string, kept, dropped int) error {
	_, err := s.db.Exec(
		`UPDATE build_runs SET kept = ?, dropped = ?, completed_at = CURRENT_TIMESTAMP WHERE run_id = ?`,
		kept, dropped, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	return nil
}

// InsertResult persists one finished training sample under a run,
// incrementally: each sample is written as it completes so a crashed
// build keeps everything processed so far.
func (s *Store) InsertResult(runID string, ts TrainingSample, diag ResultDiagnostics) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO results (
			run_id, sample_id, label, split, points,
			process_noise, measurement_noise, initial_covariance,
			tune_error, rmse, track_count, selection_kind
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, ts.SampleID, ts.Label, ts.Split, EncodePointBlob(ts.Points),
		diag.Params.ProcessNoise, diag.Params.MeasurementNoise, diag.Params.InitialCovariance,
		diag.TuneError, diag.RMSE, diag.TrackCount, diag.SelectionKind,
	)
	if err != nil {
		return fmt.Errorf("inserting result %s/%s: %w", runID, ts.SampleID, err)
	}
	return nil
}

// Results returns a run's training samples in sample order.
func (s *Store) Results(runID string) ([]TrainingSample, error) {
	rows, err := s.db.Query(
		`SELECT sample_id, label, split, points FROM results WHERE run_id = ? ORDER BY sample_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying results for %s: %w", runID, err)
	}
	defer rows.Close()

	var out []TrainingSample
	for rows.Next() {
		var ts TrainingSample
		var blob []byte
		if err := rows.Scan(&ts.SampleID, &ts.Label, &ts.Split, &blob); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		ts.Points = DecodePointBlob(blob)
		out = append(out, ts)
	}
	return out, rows.Err()
}

// SplitCounts returns how many of a run's results landed in each split.
func (s *Store) SplitCounts(runID string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT split, COUNT(*) FROM results WHERE run_id = ? GROUP BY split`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting splits for %s: %w", runID, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var split string
		var n int
		if err := rows.Scan(&split, &n); err != nil {
			return nil, err
		}
		counts[split] = n
	}
	return counts, rows.Err()
}

// PruneRun deletes a run and its results, for rebuilding after a bad
// parameter choice.
func (s *Store) PruneRun(runID string) error {
	if _, err := s.db.Exec(`DELETE FROM results WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("pruning results for %s: %w", runID, err)
	}
	if _, err := s.db.Exec(`DELETE FROM build_runs WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("pruning run %s: %w", runID, err)
	}
	return nil
}
