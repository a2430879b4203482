package geom

import "gonum.org/v1/gonum/spatial/r2"

// Projection maps a viewport onto a Width x Height raster with y growing
// downwards.
type Projection struct {
	Viewport Viewport
	Width    float64
	Height   float64
}

// Point maps a world point to raster coordinates.
func (p Projection) Point(v r2.Vec) (x, y float64) {
	vp := p.Viewport
	x = (v.X - vp.XMin) / vp.Width() * p.Width
	y = (vp.YMax - v.Y) / vp.Height() * p.Height
	return x, y
}

// Length scales a world distance along x.
func (p Projection) Length(d float64) float64 {
	return d / p.Viewport.Width() * p.Width
}
