package timeseries

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// PlotOptions controls terminal plot size.
type PlotOptions struct {
	Width  int
	Height int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 10}
}

// Plot renders the named columns (all species when none are given) as one
// terminal chart with a legend.
func (t *Table) Plot(opts PlotOptions, names ...string) (string, error) {
	if t.Empty() {
		return "", ErrEmpty
	}
	if len(names) == 0 {
		names = t.Species()
	}

	series := make([][]float64, 0, len(names))
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return "", err
		}
		series = append(series, col)
	}

	colors := make([]asciigraph.AnsiColor, len(series))
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}

	caption := fmt.Sprintf("t = %.4g .. %.4g", t.Times[0], t.Times[t.Len()-1])
	return asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(names...),
		asciigraph.Caption(caption),
	), nil
}

var palette = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Blue,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Cyan,
}
