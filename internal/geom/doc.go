// Package geom provides the planar geometry used to lay out animation frames.
//
// Two pieces of work live here:
//
//   - [Trace] and [Clip]: the line in which an infinite plane cuts the ground
//     (X-Y) plane, and the part of that line visible inside a [Viewport]
//   - [BoundingBox] and [Viewport.Square]: the smallest square viewport that
//     shows every particle disk without distorting circles
//
// Degenerate inputs are reported with the sentinel errors in errors.go
// instead of leaking NaN or Inf into rendering.
package geom
