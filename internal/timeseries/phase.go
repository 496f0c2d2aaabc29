package timeseries

import (
	"fmt"
	"strings"
)

// Point is one sample of two columns against each other.
type Point struct{ X, Y float64 }

// Phase pairs two columns row by row.
func (t *Table) Phase(xName, yName string) ([]Point, error) {
	if t.Empty() {
		return nil, ErrEmpty
	}
	xs, err := t.Column(xName)
	if err != nil {
		return nil, err
	}
	ys, err := t.Column(yName)
	if err != nil {
		return nil, err
	}
	points := make([]Point, len(xs))
	for i := range xs {
		points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return points, nil
}

type bounds struct {
	minX, rangeX float64
	minY, rangeY float64
}

// paddedBounds covers every point with 10% margin on each side.
func paddedBounds(points []Point) bounds {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX:   minX - rangeX*0.1,
		rangeX: rangeX * 1.2,
		minY:   minY - rangeY*0.1,
		rangeY: rangeY * 1.2,
	}
}

// PhaseASCII draws yName against xName on a width x height character grid.
// Axes are drawn where zero is in view.
func (t *Table) PhaseASCII(xName, yName string, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("%w: %dx%d", ErrSize, width, height)
	}
	points, err := t.Phase(xName, yName)
	if err != nil {
		return "", err
	}
	b := paddedBounds(points)

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	toCol := func(x float64) int { return int((x - b.minX) / b.rangeX * float64(width-1)) }
	toRow := func(y float64) int { return height - 1 - int((y-b.minY)/b.rangeY*float64(height-1)) }

	if b.minX <= 0 && b.minX+b.rangeX >= 0 {
		col := toCol(0)
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if b.minY <= 0 && b.minY+b.rangeY >= 0 {
		row := toRow(0)
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, p := range points {
		row, col := toRow(p.Y), toCol(p.X)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String(), nil
}
