package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

// PlotTracks renders each track's raw centroid path against its filtered
// estimate path on one XY plot and saves it as a PNG. Raw paths draw
// dashed, filtered paths solid, one hue per track.
func PlotTracks(filtered []mmwave.FilteredTrack, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	colors := trackColors(len(filtered))
	for i := range filtered {
		ft := &filtered[i]

		raw := make(plotter.XYs, 0, len(ft.Track.Entries))
		for _, e := range ft.Track.Entries {
			raw = append(raw, plotter.XY{X: e.Centroid.X, Y: e.Centroid.Y})
		}
		if len(raw) > 0 {
			rawLine, err := plotter.NewLine(raw)
			if err != nil {
				return fmt.Errorf("track %d raw line: %w", ft.Track.ID, err)
			}
			rawLine.Color = colors[i]
			rawLine.Width = vg.Points(1)
			rawLine.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
			p.Add(rawLine)
			p.Legend.Add(fmt.Sprintf("track %d raw", ft.Track.ID), rawLine)
		}

		est := make(plotter.XYs, 0, len(ft.Estimates))
		for _, s := range ft.Estimates {
			est = append(est, plotter.XY{X: s.X, Y: s.Y})
		}
		if len(est) > 0 {
			estLine, err := plotter.NewLine(est)
			if err != nil {
				return fmt.Errorf("track %d estimate line: %w", ft.Track.ID, err)
			}
			estLine.Color = colors[i]
			estLine.Width = vg.Points(2)
			p.Add(estLine)
			p.Legend.Add(fmt.Sprintf("track %d filtered", ft.Track.ID), estLine)
		}
	}

	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("saving track plot: %w", err)
	}
	return nil
}

// trackColors spreads n hues evenly so adjacent tracks stay
// distinguishable.
func trackColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.45)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64
	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}
	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
