package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Viewport is an axis-aligned rectangle in world coordinates.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (v Viewport) Width() float64  { return v.XMax - v.XMin }
func (v Viewport) Height() float64 { return v.YMax - v.YMin }

func (v Viewport) Center() r2.Vec {
	return r2.Vec{X: (v.XMax + v.XMin) / 2, Y: (v.YMax + v.YMin) / 2}
}

// Contains reports whether p lies in v. All four bounds are inclusive.
func (v Viewport) Contains(p r2.Vec) bool {
	return v.XMin <= p.X && p.X <= v.XMax && v.YMin <= p.Y && p.Y <= v.YMax
}

// ContainsViewport reports whether o lies entirely inside v.
func (v Viewport) ContainsViewport(o Viewport) bool {
	return v.XMin <= o.XMin && o.XMax <= v.XMax && v.YMin <= o.YMin && o.YMax <= v.YMax
}

// Square expands the shorter side of v so both sides equal the longer one,
// keeping both midpoints fixed.
func (v Viewport) Square() Viewport {
	c := v.Center()
	width := math.Max(v.Width(), v.Height())
	return Viewport{
		XMin: c.X - width/2,
		XMax: c.X + width/2,
		YMin: c.Y - width/2,
		YMax: c.Y + width/2,
	}
}

// Union returns the smallest viewport containing both v and o.
func (v Viewport) Union(o Viewport) Viewport {
	return Viewport{
		XMin: math.Min(v.XMin, o.XMin),
		XMax: math.Max(v.XMax, o.XMax),
		YMin: math.Min(v.YMin, o.YMin),
		YMax: math.Max(v.YMax, o.YMax),
	}
}

func (v Viewport) String() string {
	return fmt.Sprintf("[%g, %g] x [%g, %g]", v.XMin, v.XMax, v.YMin, v.YMax)
}

// Disk is the ground-plane footprint of a spherical particle.
type Disk struct {
	Center r2.Vec
	Radius float64
}

// BoundingBox returns the tight box covering every disk.
func BoundingBox(disks []Disk) (Viewport, error) {
	if len(disks) == 0 {
		return Viewport{}, ErrNoParticles
	}

	box := Viewport{
		XMin: math.Inf(1), XMax: math.Inf(-1),
		YMin: math.Inf(1), YMax: math.Inf(-1),
	}
	for _, d := range disks {
		if !finite(d.Center.X, d.Center.Y, d.Radius) {
			return Viewport{}, fmt.Errorf("disk at %v radius %g: %w", d.Center, d.Radius, ErrNonFinite)
		}
		box.XMin = math.Min(box.XMin, d.Center.X-d.Radius)
		box.XMax = math.Max(box.XMax, d.Center.X+d.Radius)
		box.YMin = math.Min(box.YMin, d.Center.Y-d.Radius)
		box.YMax = math.Max(box.YMax, d.Center.Y+d.Radius)
	}
	return box, nil
}

// SquareViewport is BoundingBox followed by Square.
func SquareViewport(disks []Disk) (Viewport, error) {
	box, err := BoundingBox(disks)
	if err != nil {
		return Viewport{}, err
	}
	return box.Square(), nil
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
