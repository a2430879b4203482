package render

import (
	"fmt"
	"image/color"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ruancomelli/psin/internal/config"
	"github.com/ruancomelli/psin/internal/scene"
)

// ParseColor accepts anything a recorded entity color name accepts.
func ParseColor(name string) (drawing.Color, error) {
	c, err := scene.Color{Name: name}.Resolve()
	if err != nil {
		return drawing.Color{}, fmt.Errorf("render: %w", err)
	}
	return toDrawing(c), nil
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// colorSet is a Style with every color resolved.
type colorSet struct {
	grid, analytical, measured, series, background, fill, label drawing.Color
}

func newColorSet(style config.Style) (colorSet, error) {
	names := []string{style.Grid, style.Analytical, style.Measured, style.Series, style.Background, style.ParticleFill, style.Label}
	cs := make([]drawing.Color, len(names))
	for i, n := range names {
		c, err := ParseColor(n)
		if err != nil {
			return colorSet{}, err
		}
		cs[i] = c
	}
	return colorSet{
		grid:       cs[0],
		analytical: cs[1],
		measured:   cs[2],
		series:     cs[3],
		background: cs[4],
		fill:       cs[5],
		label:      cs[6],
	}, nil
}
