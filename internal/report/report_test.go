package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

func testStats() BuildStats {
	return BuildStats{
		RunID: "run-test",
		Kept:  2,
		Dropped: map[string]int{
			"no tracks":    3,
			"no keypoints": 1,
		},
		Samples: []SampleStats{
			{SampleID: "s-001", Params: mmwave.FilterParams{ProcessNoise: 12, MeasurementNoise: 0.8, InitialCovariance: 20}, TuneError: 0.15, RMSE: 0.3, TrackCount: 2, SelectionKind: "single"},
			{SampleID: "s-002", Params: mmwave.FilterParams{ProcessNoise: 30, MeasurementNoise: 2.5, InitialCovariance: 10}, TuneError: 0.4, RMSE: 0.0, TrackCount: 1, SelectionKind: "merged"},
		},
	}
}

func TestWriteRendersAllCharts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testStats()))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Sample outcomes")
	assert.Contains(t, html, "Tuned filter parameters")
	assert.Contains(t, html, "Selected-track RMSE")
	assert.Contains(t, html, "no keypoints")
}

func TestWriteEmptyRun(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, BuildStats{RunID: "run-empty"}))
	assert.NotZero(t, buf.Len())
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, WriteFile(path, testStats()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "echarts"))
}
