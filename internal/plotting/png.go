// Package plotting renders the diagnostic artifacts: PNG sample-path
// overlays, the log-log convergence-rate plot, and a terminal preview
// of the error curves.
package plotting

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one named trajectory on a shared time grid.
type Series struct {
	Name string
	Ys   []float64
}

// RateCurve is one method's error-vs-step-size curve with its fitted
// convergence order.
type RateCurve struct {
	Name  string
	MSEs  []float64
	Order float64
}

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// SavePaths writes a PNG overlaying the given trajectories against ts.
func SavePaths(path string, ts []float64, series []Series) error {
	p := plot.New()
	p.X.Label.Text = "t"
	p.Y.Label.Text = "y"
	p.Legend.Top = true

	for i, s := range series {
		if len(s.Ys) != len(ts) {
			return fmt.Errorf("plotting: series %q has %d points, grid has %d", s.Name, len(s.Ys), len(ts))
		}
		xys := make(plotter.XYs, len(ts))
		for k := range ts {
			xys[k].X = ts[k]
			xys[k].Y = s.Ys[k]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	return p.Save(plotWidth, plotHeight, path)
}

// SaveRates writes the log-log convergence plot, one curve per method,
// slope reported in the legend.
func SaveRates(path string, dts []float64, curves []RateCurve) error {
	p := plot.New()
	p.X.Label.Text = "dt"
	p.Y.Label.Text = "mse"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true
	p.Legend.Left = true

	for i, c := range curves {
		if len(c.MSEs) != len(dts) {
			return fmt.Errorf("plotting: curve %q has %d points, ladder has %d", c.Name, len(c.MSEs), len(dts))
		}
		xys := make(plotter.XYs, len(dts))
		for k := range dts {
			xys[k].X = dts[k]
			xys[k].Y = c.MSEs[k]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s(k=%.4f)", c.Name, c.Order), line)
	}

	return p.Save(plotWidth, plotHeight, path)
}
