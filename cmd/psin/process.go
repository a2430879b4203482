package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ruancomelli/psin/internal/animation"
	"github.com/ruancomelli/psin/internal/config"
	"github.com/ruancomelli/psin/internal/export"
	"github.com/ruancomelli/psin/internal/geom"
	"github.com/ruancomelli/psin/internal/metrics"
	"github.com/ruancomelli/psin/internal/render"
	"github.com/ruancomelli/psin/internal/runner"
	"github.com/ruancomelli/psin/internal/scene"
	"github.com/ruancomelli/psin/internal/simdata"
	"github.com/ruancomelli/psin/internal/storage"
	"github.com/ruancomelli/psin/internal/viz"
)

const (
	graphsDir = "graphs"
	framesDir = "frames"
)

func simulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := simulationName
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		name = filepath.Base(cfg.Output)
	}
	return runSimulation(cmd.Context(), cfg, name)
}

func runSimulation(ctx context.Context, cfg *config.Config, name string) error {
	sc := cfg.Simulator
	if sc.Program == "" {
		return runner.ErrNoProgram
	}

	args := append([]string(nil), sc.Args...)
	if sc.Input != "" {
		if err := runner.WriteInput(sc.Input, name); err != nil {
			return fmt.Errorf("failed to write simulator input: %w", err)
		}
		args = append(args, sc.Input)
	}

	fmt.Println(viz.Step("Initializing " + name))
	s := &runner.Simulator{
		Program: sc.Program,
		Args:    args,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	if err := s.Run(ctx); err != nil {
		return err
	}
	fmt.Println(viz.Done("Simulation finished"))
	return nil
}

func process(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := dataDir(cfg, args)
	name := simulationName
	if name == "" {
		name = filepath.Base(dir)
	}
	ctx := cmd.Context()

	if runSimulator {
		if err := runSimulation(ctx, cfg, name); err != nil {
			return err
		}
	}

	fmt.Println(viz.Step("Processing " + dir))
	d, err := simdata.Load(dir)
	if err != nil {
		return err
	}
	records, err := simdata.LoadCollisions(dir)
	if err != nil {
		return err
	}

	r, series, err := metrics.Analyze(d, records, cfg.Selection)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", dir, err)
	}

	st := storage.New(cfg.Reports)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(name, dir, r, series)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	plotter, err := render.NewPlotter(cfg.Style, cfg.Plots)
	if err != nil {
		return err
	}
	paths, err := render.WriteFigures(filepath.Join(dir, graphsDir), cfg.Plots.Format, plotter.Figures(r, series, figureSizes(cfg)))
	if err != nil {
		return err
	}

	if err := printReport(r); err != nil {
		return err
	}
	fmt.Println()
	for _, p := range paths {
		fmt.Println("  " + p)
	}

	if renderVideo {
		if err := renderAnimation(ctx, cfg, d, dir); err != nil {
			return err
		}
	}

	fmt.Println(viz.Done("Report " + id))
	return nil
}

func figureSizes(cfg *config.Config) []config.FigureSize {
	sizes := make([]config.FigureSize, 0, len(cfg.Plots.Sizes))
	for _, name := range cfg.Plots.Sizes {
		// Validate already rejected unknown names.
		s, _ := config.GetSize(name)
		sizes = append(sizes, s)
	}
	return sizes
}

func printReport(r *metrics.Report) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "particle\t%s\n", r.Particle)
	fmt.Fprintf(w, "timestep\t%.4gs\n", r.Timestep)
	fmt.Fprintf(w, "sample interval\t%.4gs\n", r.SampleInterval)
	fmt.Fprintf(w, "analytical e\t%.4f\n", r.Analytical)
	fmt.Fprintf(w, "collisions\t%d\n", len(r.Collisions))
	fmt.Fprintf(w, "max deviation\t%.4f\n", r.MaxDeviation)
	fmt.Fprintf(w, "energy\t%.4g J -> %.4g J\n", r.InitialEnergy, r.FinalEnergy)
	fmt.Fprintf(w, "max drift\t%.2f%%\n", 100*r.MaxRelativeDrift)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(r.Collisions) == 0 {
		return nil
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tV_IN\tV_OUT\tINDICES\tE")
	for i, c := range r.Collisions {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%d-%d\t%.4f\n",
			i, c.Velocities[0], c.Velocities[1], c.TimeIndices[0], c.TimeIndices[1], c.Restitution)
	}
	return w.Flush()
}

func animationOptions(cfg *config.Config) animation.Options {
	return animation.Options{
		Stride:             cfg.Animation.Stride,
		SignificantFigures: cfg.Animation.SignificantFigures,
		Viewport:           animation.ViewportMode(cfg.Animation.Viewport),
	}
}

func animate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := dataDir(cfg, args)
	d, err := simdata.Load(dir)
	if err != nil {
		return err
	}
	return renderAnimation(cmd.Context(), cfg, d, dir)
}

func renderAnimation(ctx context.Context, cfg *config.Config, d *scene.Dataset, dir string) error {
	a, err := animation.New(d, animationOptions(cfg))
	if err != nil {
		return err
	}
	// Incomplete records fail here, before a partial video is written.
	if err := d.Validate(a.Indices()); err != nil {
		return err
	}
	fr, err := render.NewFrameRenderer(cfg.Animation.Pixels, cfg.Style)
	if err != nil {
		return err
	}

	ac := cfg.Animation
	path := filepath.Join(dir, "animation."+ac.Format)
	vw, err := render.NewVideoWriter(ac.Format, path, fr.Size(), ac.FrameRate(a.Len()), ac.Quality)
	if err != nil {
		return err
	}

	fmt.Println(viz.Step(fmt.Sprintf("Rendering %d frames", a.Len())))
	err = render.WriteVideo(ctx, a, fr, vw, func(done, total int) {
		fmt.Printf("\r%s %d/%d", viz.ProgressBar(float64(done)/float64(total), 30), done, total)
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	fmt.Println(viz.Done("Wrote " + path))
	return nil
}

func writeFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := dataDir(cfg, args)
	d, err := simdata.Load(dir)
	if err != nil {
		return err
	}
	a, err := animation.New(d, animationOptions(cfg))
	if err != nil {
		return err
	}
	if frameNumber < 0 {
		if err := d.Validate(a.Indices()); err != nil {
			return err
		}
	}

	outDir := filepath.Join(dir, framesDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	var written atomic.Int64
	write := func(f animation.Frame) error {
		path := filepath.Join(outDir, fmt.Sprintf("frame_%04d.svg", f.Number))
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if braille {
			c := viz.NewCanvas(60, 30)
			c.DrawFrame(f)
			export.Canvas(file, c, 6, cfg.Style.Series)
		} else {
			export.Frame(file, f, cfg.Animation.Pixels, cfg.Style)
		}
		written.Add(1)
		return file.Close()
	}

	if frameNumber >= 0 {
		f, err := a.At(frameNumber)
		if err != nil {
			return err
		}
		if err := write(f); err != nil {
			return err
		}
	} else if err := animation.ForEach(cmd.Context(), a, runtime.NumCPU(), write); err != nil {
		return err
	}

	if trajectory {
		if err := writeTrajectory(cfg, d, filepath.Join(outDir, "trajectory.svg")); err != nil {
			return err
		}
	}

	fmt.Println(viz.Done(fmt.Sprintf("Wrote %d frames to %s", written.Load(), outDir)))
	return nil
}

// writeTrajectory draws the selected particle's center over every recorded
// instant.
func writeTrajectory(cfg *config.Config, d *scene.Dataset, path string) error {
	p, err := d.Particle(cfg.Selection.Particle)
	if err != nil {
		return err
	}

	indices := d.Timeline.Indices()
	points := make([]r2.Vec, 0, len(indices))
	disks := make([]geom.Disk, 0, len(indices))
	for _, idx := range indices {
		s, err := p.At(idx)
		if err != nil {
			return err
		}
		disk := s.Disk()
		points = append(points, disk.Center)
		disks = append(disks, disk)
	}
	box, err := geom.SquareViewport(disks)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	export.Trajectory(f, points, box, cfg.Animation.Pixels, cfg.Style.Series)
	return f.Close()
}

func preview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := dataDir(cfg, args)
	d, err := simdata.Load(dir)
	if err != nil {
		return err
	}
	a, err := animation.New(d, animationOptions(cfg))
	if err != nil {
		return err
	}
	frames, err := animation.Collect(a)
	if err != nil {
		return err
	}

	p := viz.NewPreview(filepath.Base(dir), frames, cfg.Animation.FrameRate(len(frames)), frameEnergy(cfg, d, frames)).
		WithTheme(viz.GetTheme(themeName))
	return viz.Run(p)
}

// frameEnergy returns the selected particle's mechanical energy at each
// frame, or nil when the dataset does not record enough to compute it.
func frameEnergy(cfg *config.Config, d *scene.Dataset, frames []animation.Frame) []float64 {
	p, err := d.Particle(cfg.Selection.Particle)
	if err != nil {
		return nil
	}
	field, err := d.Boundary(cfg.Selection.Gravity)
	if err != nil {
		return nil
	}
	g, err := field.Vector(metrics.GravityProperty, d.Timeline.First())
	if err != nil {
		return nil
	}
	series, err := metrics.Energies(p, d.Timeline, g)
	if err != nil {
		return nil
	}

	byIndex := make(map[int]float64, len(series))
	for _, s := range series {
		byIndex[s.TimeIndex] = s.Mechanical
	}
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = byIndex[f.TimeIndex]
	}
	return out
}
