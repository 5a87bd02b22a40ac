package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series is one profile line: intensity Y against axis X
type Series struct {
	Label string
	X, Y  []float64

	// Color is a hex color; empty or invalid falls back to black
	Color string
}

// PlotProfiles draws every series on one plot and saves it; the format
// follows the file extension. Points with a non-finite coordinate are
// dropped and a series with no remaining point is skipped.
func PlotProfiles(series []Series, title, xLabel, filename string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Intensity"

	added := 0
	for _, s := range series {
		pts := make(plotter.XYs, 0, len(s.X))
		for i := 0; i < len(s.X) && i < len(s.Y); i++ {
			if !finite(s.X[i]) || !finite(s.Y[i]) {
				continue
			}
			pts = append(pts, plotter.XY{X: s.X[i], Y: s.Y[i]})
		}
		if len(pts) == 0 {
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Label, err)
		}
		c, err := ParseColor(s.Color)
		if err != nil {
			c = color.RGBA{A: 255}
		}
		line.Color = c
		line.Width = vg.Points(1)
		p.Add(line)
		if s.Label != "" {
			p.Legend.Add(s.Label, line)
		}
		added++
	}
	if added == 0 {
		return fmt.Errorf("no plottable series")
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p.Save(10*vg.Inch, 5*vg.Inch, filename)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
