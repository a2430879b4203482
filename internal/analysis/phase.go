package analysis

import (
	"math"
	"strings"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D pairs two histories sample by sample.
type PhasePortrait2D struct {
	Points []Point
}

// NewPhasePortrait pairs x and y up to the shorter of the two.
func NewPhasePortrait(x, y []float64) *PhasePortrait2D {
	n := min(len(x), len(y))
	p := &PhasePortrait2D{Points: make([]Point, n)}
	for i := 0; i < n; i++ {
		p.Points[i] = Point{X: x[i], Y: y[i]}
	}
	return p
}

// Derivative differentiates values over times: central differences inside,
// one-sided at both ends.
func Derivative(times, values []float64) []float64 {
	n := min(len(times), len(values))
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = (values[1] - values[0]) / (times[1] - times[0])
	for i := 1; i < n-1; i++ {
		out[i] = (values[i+1] - values[i-1]) / (times[i+1] - times[i-1])
	}
	out[n-1] = (values[n-1] - values[n-2]) / (times[n-1] - times[n-2])
	return out
}

// Bounds returns the smallest box holding every point.
func (p *PhasePortrait2D) Bounds() (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return minX, maxX, minY, maxY
}

// ToASCII draws the portrait with a 10% margin and the axes where they are
// visible.
func (p *PhasePortrait2D) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := p.Bounds()
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX, rangeY = maxX-minX, maxY-minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
