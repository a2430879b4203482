package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"

	"github.com/ruancomelli/psin/internal/config"
	"github.com/ruancomelli/psin/internal/metrics"
)

const timeAxis = "Time [s]"

// Plotter builds the post-processing charts of a run. It is safe to share
// between goroutines.
type Plotter struct {
	style           config.Style
	colors          colorSet
	dpi             float64
	markerThreshold int
}

func NewPlotter(style config.Style, plots config.PlotsConfig) (*Plotter, error) {
	colors, err := newColorSet(style)
	if err != nil {
		return nil, err
	}
	return &Plotter{
		style:           style,
		colors:          colors,
		dpi:             plots.DPI,
		markerThreshold: plots.MarkerThreshold,
	}, nil
}

func (p *Plotter) base(size config.FigureSize, ylabel string) chart.Chart {
	w, h := size.Pixels(p.dpi)
	axis := chart.Style{FontSize: p.style.TickLabelSize * size.FontSize / 11}
	grid := chart.Style{StrokeColor: p.colors.grid, StrokeWidth: p.style.LineWidth}
	return chart.Chart{
		Width:      w,
		Height:     h,
		DPI:        p.dpi,
		Background: chart.Style{FillColor: p.colors.background},
		XAxis: chart.XAxis{
			Name:           timeAxis,
			NameStyle:      chart.Style{FontSize: size.FontSize},
			Style:          axis,
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           ylabel,
			NameStyle:      chart.Style{FontSize: size.FontSize},
			Style:          axis,
			GridMajorStyle: grid,
		},
	}
}

// seriesStyle draws a line through long histories and markers on short
// ones.
func (p *Plotter) seriesStyle(n int, c chart.Style) chart.Style {
	if n > p.markerThreshold {
		c.StrokeColor = p.colors.series
		c.StrokeWidth = p.style.LineWidth
		return c
	}
	c.StrokeWidth = chart.Disabled
	c.DotColor = p.colors.series
	c.DotWidth = p.style.MarkerSize
	return c
}

// Restitution plots the analytical coefficient as a line over times and
// every measured collision as markers.
func (p *Plotter) Restitution(times []float64, r *metrics.Report, size config.FigureSize) chart.Chart {
	c := p.base(size, "Coefficient of Restitution")
	c.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: 1.2}

	analytical := make([]float64, len(times))
	for i := range analytical {
		analytical[i] = r.Analytical
	}
	c.Series = append(c.Series, chart.ContinuousSeries{
		Name:    "Analytical Solution",
		XValues: times,
		YValues: analytical,
		Style:   chart.Style{StrokeColor: p.colors.analytical, StrokeWidth: p.style.LineWidth},
	})

	var xs, ys []float64
	for _, s := range r.Collisions {
		for _, t := range s.Times {
			xs = append(xs, t)
			ys = append(ys, s.Restitution)
		}
	}
	if len(xs) > 0 {
		c.Series = append(c.Series, chart.ContinuousSeries{
			Name:    "Simulation",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    p.colors.measured,
				DotWidth:    p.style.MarkerSize,
			},
		})
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c
}

// History plots one energy or position history.
func (p *Plotter) History(name, ylabel string, times, values []float64, size config.FigureSize) chart.Chart {
	c := p.base(size, ylabel)
	c.YAxis.Range = autoRange(values)
	c.Series = []chart.Series{chart.ContinuousSeries{
		Name:    name,
		XValues: times,
		YValues: values,
		Style:   p.seriesStyle(len(values), chart.Style{}),
	}}
	return c
}

// Mechanical plots the mechanical energy from zero, so that a small drift
// does not look like a large one.
func (p *Plotter) Mechanical(times, values []float64, size config.FigureSize) chart.Chart {
	c := p.History("Mechanical energy", "Mechanical Energy [J]", times, values, size)
	top := 0.0
	if len(values) > 0 {
		top = math.Max(0, floats.Max(values))
	}
	if top == 0 {
		top = 1
	}
	c.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: 1.1 * top}
	return c
}

// autoRange pads constant histories, which go-chart cannot scale.
func autoRange(values []float64) chart.Range {
	if len(values) == 0 {
		return nil
	}
	lo, hi := floats.Min(values), floats.Max(values)
	if lo != hi {
		return nil
	}
	pad := math.Max(math.Abs(lo)*0.1, 1)
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// Encode writes c as PNG or SVG.
func Encode(w io.Writer, c chart.Chart, format string) error {
	switch format {
	case "png":
		return c.Render(chart.PNG, w)
	case "svg":
		return c.Render(chart.SVG, w)
	}
	return fmt.Errorf("render: unknown chart format %q", format)
}

// Figure is a chart with the file name it is written to, without extension.
type Figure struct {
	Name  string
	Chart chart.Chart
}

// Figures builds every chart of a report at every size.
func (p *Plotter) Figures(r *metrics.Report, series metrics.EnergySeries, sizes []config.FigureSize) []Figure {
	times := series.Times()
	var out []Figure
	for _, size := range sizes {
		out = append(out,
			Figure{size.Prefix + "coefficient_of_restitution", p.Restitution(times, r, size)},
			Figure{size.Prefix + "kinetic_energy", p.History("Kinetic energy", "Kinetic Energy [J]", times, series.Kinetic(), size)},
			Figure{size.Prefix + "mechanical_energy", p.Mechanical(times, series.Mechanical(), size)},
			Figure{size.Prefix + "y_position", p.History("Simulation", "Height [m]", times, series.Heights(), size)},
		)
	}
	return out
}

// WriteFigures writes figs into dir and returns the paths written.
func WriteFigures(dir, format string, figs []Figure) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(figs))
	for _, fig := range figs {
		path := filepath.Join(dir, fig.Name+"."+format)
		if err := writeFigure(path, format, fig.Chart); err != nil {
			return paths, fmt.Errorf("%s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFigure(path, format string, c chart.Chart) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, c, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
