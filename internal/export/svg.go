// Package export writes frames and terminal drawings as SVG.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ruancomelli/psin/internal/animation"
	"github.com/ruancomelli/psin/internal/config"
	"github.com/ruancomelli/psin/internal/geom"
	"github.com/ruancomelli/psin/internal/viz"
)

func rgb(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func px(v float64) int { return int(math.Round(v)) }

// Frame writes f as a size x size SVG document: plane traces, then
// particles with the style's fill, then the time label.
func Frame(w io.Writer, f animation.Frame, size int, style config.Style) {
	proj := geom.Projection{Viewport: f.Viewport, Width: float64(size), Height: float64(size)}

	canvas := svg.New(w)
	canvas.Start(size, size)
	canvas.Title(f.Label)
	canvas.Rect(0, 0, size, size, "fill:"+style.Background)

	for _, l := range f.Lines {
		x0, y0 := proj.Point(l.Begin)
		x1, y1 := proj.Point(l.End)
		canvas.Line(px(x0), px(y0), px(x1), px(y1),
			fmt.Sprintf("stroke:%s;stroke-width:%g", rgb(l.Color), style.LineWidth))
	}

	for _, c := range f.Circles {
		x, y := proj.Point(c.Center)
		canvas.Circle(px(x), px(y), max(1, px(proj.Length(c.Radius))),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", style.ParticleFill, rgb(c.Color), style.LineWidth))
	}

	canvas.Text(size/2, size/15, f.Label,
		fmt.Sprintf("text-anchor:middle;font-family:%s;font-weight:%s;font-size:%dpx;fill:%s",
			style.FontFamily, style.FontWeight, max(8, size/30), style.Label))
	canvas.End()
}

// Canvas writes a Braille canvas with every set dot as a circle of
// diameter scale.
func Canvas(w io.Writer, c *viz.Canvas, scale int, fill string) {
	if scale < 1 {
		scale = 1
	}
	width, height := c.SubWidth()*scale, c.SubHeight()*scale

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#0a0a0a")
	canvas.Gstyle("fill:" + fill)
	r := max(1, scale*2/5)
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if c.IsSet(x, y) {
				canvas.Circle(x*scale+scale/2, y*scale+scale/2, r)
			}
		}
	}
	canvas.Gend()
	canvas.End()
}

// Trajectory writes the path of points through vp as a polyline.
func Trajectory(w io.Writer, points []r2.Vec, vp geom.Viewport, size int, stroke string) {
	proj := geom.Projection{Viewport: vp, Width: float64(size), Height: float64(size)}
	xs := make([]int, len(points))
	ys := make([]int, len(points))
	for i, p := range points {
		x, y := proj.Point(p)
		xs[i], ys[i] = px(x), px(y)
	}

	canvas := svg.New(w)
	canvas.Start(size, size)
	canvas.Rect(0, 0, size, size, "fill:white")
	if len(points) > 1 {
		canvas.Polyline(xs, ys, "fill:none;stroke-width:1.5;stroke:"+stroke)
	}
	canvas.End()
}
