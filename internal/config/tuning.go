package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for the track-extraction
// pipeline. Fields are pointers so a partial JSON file overrides only what
// it names; the Get* accessors supply defaults for everything else.
type TuningConfig struct {
	// Segmentation params
	FrameCount     *int     `json:"frame_count,omitempty"`
	PlaceholderEps *float64 `json:"placeholder_eps,omitempty"`

	// Clustering params
	ClusterEps       *float64 `json:"cluster_eps,omitempty"`
	ClusterMinPoints *int     `json:"cluster_min_points,omitempty"`
	HorizontalWeight *float64 `json:"horizontal_weight,omitempty"`
	VerticalWeight   *float64 `json:"vertical_weight,omitempty"`

	// Filter params
	StabilizationThreshold *float64 `json:"stabilization_threshold,omitempty"`

	// Tuner params
	TuneMaxEntries    *int `json:"tune_max_entries,omitempty"`
	TuneNumInitial    *int `json:"tune_num_initial,omitempty"`
	TuneNumIterations *int `json:"tune_num_iterations,omitempty"`

	// Output params
	SamplePoints *int `json:"sample_points,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/mmwave/pipeline/
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.FrameCount != nil && *c.FrameCount < 1 {
		return fmt.Errorf("frame_count must be at least 1, got %d", *c.FrameCount)
	}
	if c.PlaceholderEps != nil && *c.PlaceholderEps <= 0 {
		return fmt.Errorf("placeholder_eps must be positive, got %f", *c.PlaceholderEps)
	}
	if c.ClusterEps != nil && *c.ClusterEps <= 0 {
		return fmt.Errorf("cluster_eps must be positive, got %f", *c.ClusterEps)
	}
	if c.ClusterMinPoints != nil && *c.ClusterMinPoints < 1 {
		return fmt.Errorf("cluster_min_points must be at least 1, got %d", *c.ClusterMinPoints)
	}
	if c.HorizontalWeight != nil && *c.HorizontalWeight <= 0 {
		return fmt.Errorf("horizontal_weight must be positive, got %f", *c.HorizontalWeight)
	}
	if c.VerticalWeight != nil && *c.VerticalWeight <= 0 {
		return fmt.Errorf("vertical_weight must be positive, got %f", *c.VerticalWeight)
	}
	if c.StabilizationThreshold != nil && *c.StabilizationThreshold <= 0 {
		return fmt.Errorf("stabilization_threshold must be positive, got %f", *c.StabilizationThreshold)
	}
	if c.TuneMaxEntries != nil && *c.TuneMaxEntries < 1 {
		return fmt.Errorf("tune_max_entries must be at least 1, got %d", *c.TuneMaxEntries)
	}
	if c.TuneNumInitial != nil && *c.TuneNumInitial < 1 {
		return fmt.Errorf("tune_num_initial must be at least 1, got %d", *c.TuneNumInitial)
	}
	if c.TuneNumIterations != nil && *c.TuneNumIterations < 1 {
		return fmt.Errorf("tune_num_iterations must be at least 1, got %d", *c.TuneNumIterations)
	}
	if c.SamplePoints != nil && *c.SamplePoints < 1 {
		return fmt.Errorf("sample_points must be at least 1, got %d", *c.SamplePoints)
	}
	return nil
}

// GetFrameCount returns the frame_count value or the default.
func (c *TuningConfig) GetFrameCount() int {
	if c.FrameCount == nil {
		return 5
	}
	return *c.FrameCount
}

// GetPlaceholderEps returns the placeholder_eps value or the default.
func (c *TuningConfig) GetPlaceholderEps() float64 {
	if c.PlaceholderEps == nil {
		return 0.01
	}
	return *c.PlaceholderEps
}

// GetClusterEps returns the cluster_eps value or the default.
func (c *TuningConfig) GetClusterEps() float64 {
	if c.ClusterEps == nil {
		return 0.4
	}
	return *c.ClusterEps
}

// GetClusterMinPoints returns the cluster_min_points value or the default.
func (c *TuningConfig) GetClusterMinPoints() int {
	if c.ClusterMinPoints == nil {
		return 5
	}
	return *c.ClusterMinPoints
}

// GetHorizontalWeight returns the horizontal_weight value or the default.
func (c *TuningConfig) GetHorizontalWeight() float64 {
	if c.HorizontalWeight == nil {
		return 1.0
	}
	return *c.HorizontalWeight
}

// GetVerticalWeight returns the vertical_weight value or the default.
func (c *TuningConfig) GetVerticalWeight() float64 {
	if c.VerticalWeight == nil {
		return 0.25
	}
	return *c.VerticalWeight
}

// GetStabilizationThreshold returns the stabilization_threshold value or the default.
func (c *TuningConfig) GetStabilizationThreshold() float64 {
	if c.StabilizationThreshold == nil {
		return 0.05
	}
	return *c.StabilizationThreshold
}

// GetTuneMaxEntries returns the tune_max_entries value or the default.
func (c *TuningConfig) GetTuneMaxEntries() int {
	if c.TuneMaxEntries == nil {
		return 5
	}
	return *c.TuneMaxEntries
}

// GetTuneNumInitial returns the tune_num_initial value or the default.
func (c *TuningConfig) GetTuneNumInitial() int {
	if c.TuneNumInitial == nil {
		return 5
	}
	return *c.TuneNumInitial
}

// GetTuneNumIterations returns the tune_num_iterations value or the default.
func (c *TuningConfig) GetTuneNumIterations() int {
	if c.TuneNumIterations == nil {
		return 12
	}
	return *c.TuneNumIterations
}

// GetSamplePoints returns the sample_points value or the default.
func (c *TuningConfig) GetSamplePoints() int {
	if c.SamplePoints == nil {
		return 300
	}
	return *c.SamplePoints
}
