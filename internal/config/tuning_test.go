package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "frame_count": 8,
  "placeholder_eps": 0.02,
  "cluster_eps": 0.3,
  "cluster_min_points": 4,
  "horizontal_weight": 1.5,
  "vertical_weight": 0.5,
  "stabilization_threshold": 0.1,
  "tune_max_entries": 3,
  "tune_num_initial": 4,
  "tune_num_iterations": 10,
  "sample_points": 200
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.FrameCount == nil || *cfg.FrameCount != 8 {
		t.Errorf("Expected FrameCount 8, got %v", cfg.FrameCount)
	}
	if cfg.PlaceholderEps == nil || *cfg.PlaceholderEps != 0.02 {
		t.Errorf("Expected PlaceholderEps 0.02, got %v", cfg.PlaceholderEps)
	}
	if cfg.ClusterEps == nil || *cfg.ClusterEps != 0.3 {
		t.Errorf("Expected ClusterEps 0.3, got %v", cfg.ClusterEps)
	}
	if cfg.ClusterMinPoints == nil || *cfg.ClusterMinPoints != 4 {
		t.Errorf("Expected ClusterMinPoints 4, got %v", cfg.ClusterMinPoints)
	}
	if cfg.HorizontalWeight == nil || *cfg.HorizontalWeight != 1.5 {
		t.Errorf("Expected HorizontalWeight 1.5, got %v", cfg.HorizontalWeight)
	}
	if cfg.VerticalWeight == nil || *cfg.VerticalWeight != 0.5 {
		t.Errorf("Expected VerticalWeight 0.5, got %v", cfg.VerticalWeight)
	}
	if cfg.StabilizationThreshold == nil || *cfg.StabilizationThreshold != 0.1 {
		t.Errorf("Expected StabilizationThreshold 0.1, got %v", cfg.StabilizationThreshold)
	}
	if cfg.TuneMaxEntries == nil || *cfg.TuneMaxEntries != 3 {
		t.Errorf("Expected TuneMaxEntries 3, got %v", cfg.TuneMaxEntries)
	}
	if cfg.TuneNumInitial == nil || *cfg.TuneNumInitial != 4 {
		t.Errorf("Expected TuneNumInitial 4, got %v", cfg.TuneNumInitial)
	}
	if cfg.TuneNumIterations == nil || *cfg.TuneNumIterations != 10 {
		t.Errorf("Expected TuneNumIterations 10, got %v", cfg.TuneNumIterations)
	}
	if cfg.SamplePoints == nil || *cfg.SamplePoints != 200 {
		t.Errorf("Expected SamplePoints 200, got %v", cfg.SamplePoints)
	}
}

func TestLoadTuningConfigMissing(t *testing.T) {
	_, err := LoadTuningConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadTuningConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "frame_count": "invalid"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadTuningConfig(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TuningConfig
		wantErr bool
	}{
		{
			name:    "empty config is valid",
			cfg:     &TuningConfig{},
			wantErr: false,
		},
		{
			name: "valid overrides",
			cfg: &TuningConfig{
				FrameCount: ptrInt(5),
				ClusterEps: ptrFloat64(0.4),
			},
			wantErr: false,
		},
		{
			name: "zero frame count",
			cfg: &TuningConfig{
				FrameCount: ptrInt(0),
			},
			wantErr: true,
		},
		{
			name: "negative placeholder eps",
			cfg: &TuningConfig{
				PlaceholderEps: ptrFloat64(-0.01),
			},
			wantErr: true,
		},
		{
			name: "zero cluster eps",
			cfg: &TuningConfig{
				ClusterEps: ptrFloat64(0),
			},
			wantErr: true,
		},
		{
			name: "zero cluster min points",
			cfg: &TuningConfig{
				ClusterMinPoints: ptrInt(0),
			},
			wantErr: true,
		},
		{
			name: "negative vertical weight",
			cfg: &TuningConfig{
				VerticalWeight: ptrFloat64(-0.25),
			},
			wantErr: true,
		},
		{
			name: "zero stabilization threshold",
			cfg: &TuningConfig{
				StabilizationThreshold: ptrFloat64(0),
			},
			wantErr: true,
		},
		{
			name: "zero tuner budget",
			cfg: &TuningConfig{
				TuneNumIterations: ptrInt(0),
			},
			wantErr: true,
		},
		{
			name: "zero sample points",
			cfg: &TuningConfig{
				SamplePoints: ptrInt(0),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg, err := LoadTuningConfig("../../config/tuning.defaults.json")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	if cfg.GetFrameCount() != 5 {
		t.Errorf("Expected 5, got %d", cfg.GetFrameCount())
	}
	if cfg.GetClusterEps() != 0.4 {
		t.Errorf("Expected 0.4, got %f", cfg.GetClusterEps())
	}
	if cfg.GetSamplePoints() != 300 {
		t.Errorf("Expected 300, got %d", cfg.GetSamplePoints())
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	// Partial config: only override the cluster radius; everything else
	// should keep defaults.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	partialJSON := `{
  "cluster_eps": 0.6
}`
	if err := os.WriteFile(configPath, []byte(partialJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load partial config: %v", err)
	}

	if cfg.GetClusterEps() != 0.6 {
		t.Errorf("Expected overridden ClusterEps 0.6, got %f", cfg.GetClusterEps())
	}
	if cfg.GetFrameCount() != 5 {
		t.Errorf("Expected default FrameCount 5, got %d", cfg.GetFrameCount())
	}
	if cfg.GetVerticalWeight() != 0.25 {
		t.Errorf("Expected default VerticalWeight 0.25, got %f", cfg.GetVerticalWeight())
	}
	if cfg.GetTuneNumIterations() != 12 {
		t.Errorf("Expected default TuneNumIterations 12, got %d", cfg.GetTuneNumIterations())
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadTuningConfig("/some/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json extension, got nil")
	}
}

func TestLoadTuningConfigRejectsLargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "large.json")

	// Create a file larger than 1MB
	largeData := make([]byte, 2*1024*1024) // 2MB
	if err := os.WriteFile(configPath, largeData, 0644); err != nil {
		t.Fatalf("Failed to write large file: %v", err)
	}

	_, err := LoadTuningConfig(configPath)
	if err == nil {
		t.Error("Expected error for file size > 1MB, got nil")
	}
}

func TestGetterDefaults(t *testing.T) {
	cfg := &TuningConfig{} // empty config

	if cfg.GetFrameCount() != 5 {
		t.Errorf("GetFrameCount() = %d, want 5", cfg.GetFrameCount())
	}
	if cfg.GetPlaceholderEps() != 0.01 {
		t.Errorf("GetPlaceholderEps() = %f, want 0.01", cfg.GetPlaceholderEps())
	}
	if cfg.GetClusterEps() != 0.4 {
		t.Errorf("GetClusterEps() = %f, want 0.4", cfg.GetClusterEps())
	}
	if cfg.GetClusterMinPoints() != 5 {
		t.Errorf("GetClusterMinPoints() = %d, want 5", cfg.GetClusterMinPoints())
	}
	if cfg.GetHorizontalWeight() != 1.0 {
		t.Errorf("GetHorizontalWeight() = %f, want 1.0", cfg.GetHorizontalWeight())
	}
	if cfg.GetVerticalWeight() != 0.25 {
		t.Errorf("GetVerticalWeight() = %f, want 0.25", cfg.GetVerticalWeight())
	}
	if cfg.GetStabilizationThreshold() != 0.05 {
		t.Errorf("GetStabilizationThreshold() = %f, want 0.05", cfg.GetStabilizationThreshold())
	}
	if cfg.GetTuneMaxEntries() != 5 {
		t.Errorf("GetTuneMaxEntries() = %d, want 5", cfg.GetTuneMaxEntries())
	}
	if cfg.GetTuneNumInitial() != 5 {
		t.Errorf("GetTuneNumInitial() = %d, want 5", cfg.GetTuneNumInitial())
	}
	if cfg.GetTuneNumIterations() != 12 {
		t.Errorf("GetTuneNumIterations() = %d, want 12", cfg.GetTuneNumIterations())
	}
	if cfg.GetSamplePoints() != 300 {
		t.Errorf("GetSamplePoints() = %d, want 300", cfg.GetSamplePoints())
	}
}
