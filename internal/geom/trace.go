package geom

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// GroundNormal is the normal versor of the ground (X-Y) plane.
var GroundNormal = r3.Vec{X: 0, Y: 0, Z: 1}

// Line is an infinite line through Point with direction Direction.
type Line struct {
	Direction r2.Vec
	Point     r2.Vec
}

// Segment is the visible part of a line.
type Segment struct {
	Begin, End r2.Vec
}

// Trace returns the line in which the plane through origin with the given
// normal cuts the ground plane.
//
// The direction is normal × GroundNormal. The point solves normal·p =
// normal·origin with y = 0, or with x = 0 when the normal has no x component.
func Trace(normal, origin r3.Vec) (Line, error) {
	if !finite(normal.X, normal.Y, normal.Z, origin.X, origin.Y, origin.Z) {
		return Line{}, fmt.Errorf("plane normal %v origin %v: %w", normal, origin, ErrNonFinite)
	}

	a, b := normal.X, normal.Y
	if a == 0 && b == 0 {
		return Line{}, fmt.Errorf("plane normal %v: %w", normal, ErrDegenerateTrace)
	}

	d := r3.Dot(normal, origin)
	director := r3.Cross(normal, GroundNormal)

	var point r2.Vec
	if a != 0 {
		point = r2.Vec{X: d / a, Y: 0}
	} else {
		point = r2.Vec{X: 0, Y: d / b}
	}

	return Line{
		Direction: r2.Vec{X: director.X, Y: director.Y},
		Point:     point,
	}, nil
}

// Clip returns the part of line inside vp. The boolean is false when the
// line does not cross vp, in which case the segment holds zero placeholders.
//
// Axis-aligned lines span the whole viewport and are visible when both of
// their end points are inside it. Other lines are intersected with the four
// sides; the first inside candidate among x=XMin, x=XMax, y=YMin becomes the
// begin point and the first inside candidate after it becomes the end point.
func Clip(line Line, vp Viewport) (Segment, bool) {
	u, v := line.Direction.X, line.Direction.Y
	x, y := line.Point.X, line.Point.Y

	switch {
	case u == 0:
		s := Segment{Begin: r2.Vec{X: x, Y: vp.YMin}, End: r2.Vec{X: x, Y: vp.YMax}}
		return s, vp.Contains(s.Begin) && vp.Contains(s.End)
	case v == 0:
		s := Segment{Begin: r2.Vec{X: vp.XMin, Y: y}, End: r2.Vec{X: vp.XMax, Y: y}}
		return s, vp.Contains(s.Begin) && vp.Contains(s.End)
	}

	// y = slope*x + intercept; slope is nonzero here since v != 0.
	slope := v / u
	intercept := y - slope*x

	candidates := [4]r2.Vec{
		{X: vp.XMin, Y: slope*vp.XMin + intercept},
		{X: vp.XMax, Y: slope*vp.XMax + intercept},
		{X: (vp.YMin - intercept) / slope, Y: vp.YMin},
		{X: (vp.YMax - intercept) / slope, Y: vp.YMax},
	}

	// The begin point only comes from the first three candidates.
	for i := 0; i < 3; i++ {
		if !vp.Contains(candidates[i]) {
			continue
		}
		for j := i + 1; j < len(candidates); j++ {
			if vp.Contains(candidates[j]) {
				return Segment{Begin: candidates[i], End: candidates[j]}, true
			}
		}
		return Segment{}, false
	}
	return Segment{}, false
}

// PlaneSegment is Trace followed by Clip.
func PlaneSegment(normal, origin r3.Vec, vp Viewport) (Segment, bool, error) {
	line, err := Trace(normal, origin)
	if err != nil {
		return Segment{}, false, err
	}
	s, ok := Clip(line, vp)
	return s, ok, nil
}
