package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/ruancomelli/psin/internal/animation"
	"github.com/ruancomelli/psin/internal/config"
	"github.com/ruancomelli/psin/internal/geom"
)

// FrameRenderer rasterizes animation frames onto a square canvas. It is
// safe to share between goroutines.
type FrameRenderer struct {
	size   int
	style  config.Style
	colors colorSet
	font   *truetype.Font
}

func NewFrameRenderer(size int, style config.Style) (*FrameRenderer, error) {
	if size < 1 {
		return nil, fmt.Errorf("render: frame size %d", size)
	}
	colors, err := newColorSet(style)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	return &FrameRenderer{size: size, style: style, colors: colors, font: font}, nil
}

func (fr *FrameRenderer) Size() int { return fr.size }

func (fr *FrameRenderer) draw(f animation.Frame) (chart.Renderer, error) {
	r, err := chart.PNG(fr.size, fr.size)
	if err != nil {
		return nil, err
	}
	n := fr.size
	proj := geom.Projection{Viewport: f.Viewport, Width: float64(n), Height: float64(n)}

	r.SetFillColor(fr.colors.background)
	r.MoveTo(0, 0)
	r.LineTo(n, 0)
	r.LineTo(n, n)
	r.LineTo(0, n)
	r.Close()
	r.Fill()

	r.SetStrokeWidth(fr.style.LineWidth)
	for _, l := range f.Lines {
		x0, y0 := proj.Point(l.Begin)
		x1, y1 := proj.Point(l.End)
		r.SetStrokeColor(toDrawing(l.Color))
		r.MoveTo(round(x0), round(y0))
		r.LineTo(round(x1), round(y1))
		r.Stroke()
	}

	for _, c := range f.Circles {
		x, y := proj.Point(c.Center)
		r.SetFillColor(fr.colors.fill)
		r.SetStrokeColor(toDrawing(c.Color))
		r.Circle(proj.Length(c.Radius), round(x), round(y))
		r.FillStroke()
	}

	r.SetFont(fr.font)
	r.SetFontColor(fr.colors.label)
	r.SetFontSize(float64(n) / 30)
	box := r.MeasureText(f.Label)
	r.Text(f.Label, (n-box.Width())/2, box.Height()+n/40)
	return r, nil
}

func round(v float64) int { return int(math.Round(v)) }

// WritePNG encodes f as a PNG image.
func (fr *FrameRenderer) WritePNG(w io.Writer, f animation.Frame) error {
	r, err := fr.draw(f)
	if err != nil {
		return err
	}
	return r.Save(w)
}

// Render returns f as an image. go-chart's raster renderer only hands its
// canvas out through Save, so the frame goes through a PNG encoding.
func (fr *FrameRenderer) Render(f animation.Frame) (image.Image, error) {
	var buf bytes.Buffer
	if err := fr.WritePNG(&buf, f); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}
