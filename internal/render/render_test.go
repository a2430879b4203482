package render

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ruancomelli/psin/internal/animation"
	"github.com/ruancomelli/psin/internal/config"
	"github.com/ruancomelli/psin/internal/metrics"
	"github.com/ruancomelli/psin/internal/scene"
)

func testDataset() *scene.Dataset {
	tl, _ := scene.NewTimeline(map[int]float64{0: 0, 1: 0.1, 2: 0.2, 3: 0.3})
	particle := func(name string, pos r3.Vec) *scene.Particle {
		p := &scene.Particle{
			Entity:   scene.Entity{Kind: "SphericalParticle", Name: name},
			Position: scene.History[r3.Vec]{},
			Radius:   scene.History[float64]{},
			Color:    scene.History[scene.Color]{},
		}
		for idx := 0; idx < 4; idx++ {
			p.Position[idx] = pos
			p.Radius[idx] = 1
			p.Color[idx] = scene.Color{Name: "r"}
		}
		return p
	}
	wall := &scene.Boundary{
		Entity:       scene.Entity{Kind: "FixedInfinitePlane", Name: "Wall"},
		NormalVersor: scene.History[r3.Vec]{},
		Origin:       scene.History[r3.Vec]{},
		Color:        scene.History[scene.Color]{},
	}
	for idx := 0; idx < 4; idx++ {
		wall.NormalVersor[idx] = r3.Vec{Y: 1}
		wall.Origin[idx] = r3.Vec{}
		wall.Color[idx] = scene.Color{Name: "k"}
	}
	return &scene.Dataset{
		Timeline:   tl,
		Particles:  []*scene.Particle{particle("A", r3.Vec{}), particle("B", r3.Vec{X: 4, Y: 3})},
		Boundaries: []*scene.Boundary{wall},
	}
}

func testAnimator(t *testing.T) *animation.Animator {
	t.Helper()
	a, err := animation.New(testDataset(), animation.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#801a1a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.R != 0x80 || c.G != 0x1a || c.B != 0x1a || c.A != 255 {
		t.Errorf("unexpected color %+v", c)
	}

	if _, err := ParseColor("not-a-color"); err == nil {
		t.Error("expected error for unknown color")
	}
}

func TestFrameRenderer(t *testing.T) {
	fr, err := NewFrameRenderer(120, config.DefaultStyle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := testAnimator(t)
	if !a.Next() {
		t.Fatalf("expected a frame: %v", a.Err())
	}
	img, err := fr.Render(a.Frame())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
		t.Fatalf("expected 120x120 image, got %v", b)
	}

	// Viewport is [-1, 5] x [-1.5, 4.5]; the wall is drawn along y = 0,
	// which is raster row 90, away from both particles at x = 4.
	r0, _, _, _ := img.At(100, 89).RGBA()
	r1, _, _, _ := img.At(100, 90).RGBA()
	if min(r0, r1)>>8 >= 200 {
		t.Errorf("expected the wall to darken row 90, got red channels %d and %d", r0>>8, r1>>8)
	}

	bg, _, _, _ := img.At(2, 2).RGBA()
	if bg>>8 < 250 {
		t.Errorf("expected white background, got red channel %d", bg>>8)
	}
}

type countingWriter struct {
	frames int
	closed bool
}

func (w *countingWriter) AddFrame(image.Image) error { w.frames++; return nil }
func (w *countingWriter) Close() error               { w.closed = true; return nil }

func TestWriteVideo(t *testing.T) {
	fr, err := NewFrameRenderer(64, config.DefaultStyle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := testAnimator(t)

	var calls int
	w := &countingWriter{}
	if err := WriteVideo(context.Background(), a, fr, w, func(done, total int) { calls++ }); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if w.frames != 2 || calls != 2 {
		t.Errorf("expected 2 frames and 2 progress calls, got %d and %d", w.frames, calls)
	}
	if !w.closed {
		t.Error("expected writer to be closed")
	}
}

func TestWriteVideoCanceled(t *testing.T) {
	fr, _ := NewFrameRenderer(64, config.DefaultStyle())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &countingWriter{}
	if err := WriteVideo(ctx, testAnimator(t), fr, w, nil); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !w.closed {
		t.Error("expected writer to be closed")
	}
}

func TestVideoFiles(t *testing.T) {
	fr, _ := NewFrameRenderer(64, config.DefaultStyle())
	dir := t.TempDir()

	for _, format := range []string{"avi", "gif"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "animation."+format)
			vw, err := NewVideoWriter(format, path, fr.Size(), 0.5, 90)
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}
			if err := WriteVideo(context.Background(), testAnimator(t), fr, vw, nil); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil || info.Size() == 0 {
				t.Errorf("expected a non-empty file, got %v", err)
			}
		})
	}

	if _, err := NewVideoWriter("mp4", filepath.Join(dir, "x.mp4"), 64, 1, 90); err == nil {
		t.Error("expected error for unknown format")
	}
}

func testReport() (*metrics.Report, metrics.EnergySeries) {
	series := metrics.EnergySeries{
		{Time: 0, Height: 1, Kinetic: 0, Potential: 20, Mechanical: 20},
		{Time: 0.1, Height: 0.9, Kinetic: 2, Potential: 18, Mechanical: 20},
		{Time: 0.2, Height: 0.6, Kinetic: 8, Potential: 12, Mechanical: 20},
	}
	r := &metrics.Report{
		Analytical: 0.9,
		Collisions: []metrics.CollisionSample{{Restitution: 0.85, Times: []float64{0.1, 0.2}}},
	}
	return r, series
}

func TestPlotterFigures(t *testing.T) {
	p, err := NewPlotter(config.DefaultStyle(), config.DefaultConfig().Plots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, series := testReport()
	figs := p.Figures(r, series, []config.FigureSize{config.Sizes["normal"], config.Sizes["small"]})
	if len(figs) != 8 {
		t.Fatalf("expected 8 figures, got %d", len(figs))
	}
	if figs[4].Name != "small_coefficient_of_restitution" {
		t.Errorf("expected small prefix, got %s", figs[4].Name)
	}
	if figs[0].Chart.Width != 600 || figs[0].Chart.Height != 400 {
		t.Errorf("expected 600x400, got %dx%d", figs[0].Chart.Width, figs[0].Chart.Height)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, figs[0].Chart, "png"); err != nil {
		t.Fatalf("png failed: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("expected a valid png: %v", err)
	}
	if err := Encode(&buf, figs[1].Chart, "svg"); err != nil {
		t.Errorf("svg failed: %v", err)
	}
	if err := Encode(&buf, figs[1].Chart, "pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteFigures(t *testing.T) {
	p, _ := NewPlotter(config.DefaultStyle(), config.DefaultConfig().Plots)
	r, series := testReport()
	dir := filepath.Join(t.TempDir(), "plots")

	paths, err := WriteFigures(dir, "png", p.Figures(r, series, []config.FigureSize{config.Sizes["small"]}))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("expected 4 files, got %d", len(paths))
	}
	if filepath.Base(paths[3]) != "small_y_position.png" {
		t.Errorf("unexpected file %s", paths[3])
	}
}

func TestMarkersForShortHistories(t *testing.T) {
	p, _ := NewPlotter(config.DefaultStyle(), config.PlotsConfig{DPI: 100, MarkerThreshold: 2})

	short := p.seriesStyle(2, chart.Style{})
	if short.StrokeWidth != chart.Disabled || short.DotWidth == 0 {
		t.Errorf("expected markers, got %+v", short)
	}
	long := p.seriesStyle(3, chart.Style{})
	if long.StrokeWidth <= 0 || long.DotWidth != 0 {
		t.Errorf("expected a line, got %+v", long)
	}
}

func TestAutoRangePadsConstantHistories(t *testing.T) {
	if autoRange([]float64{1, 2}) != nil {
		t.Error("expected automatic range for varying values")
	}
	r, ok := autoRange([]float64{20, 20}).(*chart.ContinuousRange)
	if !ok || r.Min != 18 || r.Max != 22 {
		t.Errorf("expected [18, 22], got %+v", r)
	}
}
