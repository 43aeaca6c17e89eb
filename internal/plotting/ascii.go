package plotting

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

// previewColors cycle through the curves; asciigraph requires a color
// per legend entry, legends without colors index past the palette.
var previewColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Blue,
	asciigraph.Goldenrod,
	asciigraph.Orange,
}

// RatePreview renders the error curves as a terminal graph of
// log10(MSE) per step of the ladder, coarse confirmation before
// opening the PNG.
func RatePreview(curves []RateCurve) string {
	if len(curves) == 0 {
		return ""
	}
	data := make([][]float64, len(curves))
	names := make([]string, len(curves))
	colors := make([]asciigraph.AnsiColor, len(curves))
	for i, c := range curves {
		names[i] = c.Name
		colors[i] = previewColors[i%len(previewColors)]
		data[i] = make([]float64, len(c.MSEs))
		for k, m := range c.MSEs {
			data[i][k] = math.Log10(m)
		}
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(12),
		asciigraph.Width(64),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(names...),
		asciigraph.Caption("log10 mse per halving of dt"),
	)
}
