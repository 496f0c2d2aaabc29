package timeseries

import (
	"fmt"
	"io"
	"strings"
)

// SVGOptions controls the size of an SVG chart.
type SVGOptions struct {
	Width  int
	Height int
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 400}
}

var svgColors = []string{"#ff5555", "#50fa7b", "#8be9fd", "#f1fa8c", "#ff79c6", "#bd93f9"}

// WriteSVG draws the named columns (all species when none are given)
// against time, one path per column, with a legend.
func (t *Table) WriteSVG(w io.Writer, opts SVGOptions, names ...string) error {
	if t.Empty() {
		return ErrEmpty
	}
	if len(names) == 0 {
		names = t.Species()
	}

	series := make([][]Point, len(names))
	var all []Point
	for i, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		series[i] = make([]Point, len(col))
		for j, v := range col {
			series[i][j] = Point{X: t.Times[j], Y: v}
		}
		all = append(all, series[i]...)
	}
	b := paddedBounds(all)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height)

	for i, points := range series {
		color := svgColors[i%len(svgColors)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
		for j, p := range points {
			x := (p.X - b.minX) / b.rangeX * float64(opts.Width)
			y := float64(opts.Height) - (p.Y-b.minY)/b.rangeY*float64(opts.Height)
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<text x="10" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16*(i+1), color, names[i])
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
