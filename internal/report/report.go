// Package report renders a build-QA page for a dataset run: how many
// samples survived, why the rest were dropped, and where the tuner and
// selector landed for each kept sample.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

// SampleStats holds the per-sample diagnostics plotted on the QA page.
type SampleStats struct {
	SampleID      string
	Params        mmwave.FilterParams
	TuneError     float64
	RMSE          float64
	TrackCount    int
	SelectionKind string
}

// BuildStats is everything the QA page needs about one build run.
type BuildStats struct {
	RunID   string
	Kept    int
	Dropped map[string]int // skip reason -> count
	Samples []SampleStats  // kept samples, in build order
}

// Write renders the QA page as a standalone HTML document.
func Write(w io.Writer, stats BuildStats) error {
	page := components.NewPage()
	page.PageTitle = "Dataset build " + stats.RunID
	page.AddCharts(
		outcomeBar(stats),
		tunedParamScatter(stats.Samples),
		rmseLine(stats.Samples),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering build report: %w", err)
	}
	return nil
}

// WriteFile renders the QA page to path, for the -report CLI flag.
func WriteFile(path string, stats BuildStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := Write(f, stats); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// outcomeBar charts kept count next to each drop reason, so a build
// that silently lost most of its input is obvious at a glance.
func outcomeBar(stats BuildStats) *charts.Bar {
	reasons := make([]string, 0, len(stats.Dropped))
	for r := range stats.Dropped {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)

	x := []string{"kept"}
	y := []opts.BarData{{Value: stats.Kept}}
	for _, r := range reasons {
		x = append(x, r)
		y = append(y, opts.BarData{Value: stats.Dropped[r]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Sample outcomes", Subtitle: fmt.Sprintf("run=%s", stats.RunID)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("samples", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

// tunedParamScatter plots each sample's tuned process noise against its
// measurement noise, colored by the tuner's objective value. Tight
// clusters suggest a shared optimum; a wall of points pinned to a bound
// suggests the search box is too small.
func tunedParamScatter(samples []SampleStats) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(samples))
	maxErr := 0.0
	for _, s := range samples {
		if s.TuneError > maxErr {
			maxErr = s.TuneError
		}
		data = append(data, opts.ScatterData{Value: []interface{}{s.Params.ProcessNoise, s.Params.MeasurementNoise, s.TuneError}})
	}
	if maxErr == 0 {
		maxErr = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Tuned filter parameters", Subtitle: fmt.Sprintf("samples=%d", len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "process noise", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "measurement noise", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxErr),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("tuned params", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter
}

// rmseLine plots each kept sample's selected-track residual in build
// order. Single-entry winners carry no residual and plot as zero.
func rmseLine(samples []SampleStats) *charts.Line {
	x := make([]string, 0, len(samples))
	y := make([]opts.LineData, 0, len(samples))
	for _, s := range samples {
		x = append(x, s.SampleID)
		y = append(y, opts.LineData{Value: s.RMSE})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Selected-track RMSE"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "RMSE (m)", NameLocation: "middle", NameGap: 35}),
	)
	line.SetXAxis(x).
		AddSeries("rmse", y, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	return line
}
