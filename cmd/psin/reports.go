package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ruancomelli/psin/internal/analysis"
	"github.com/ruancomelli/psin/internal/config"
	"github.com/ruancomelli/psin/internal/storage"
	"github.com/ruancomelli/psin/internal/viz"
)

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Reports), nil
}

func listReports(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	reports, err := st.List()
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Println("no reports found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSIMULATION\tTIME\tPARTICLE\tDT\tCOLLISIONS\tE")

	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4gs\t%d\t%.4f\n",
			r.ID,
			r.Simulation,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Particle,
			r.Timestep,
			r.Collisions,
			r.Metrics["analytical_restitution"],
		)
	}

	return w.Flush()
}

func plotReport(cmd *cobra.Command, args []string) error {
	id := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(id)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(id)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("report: %s\n", meta.ID)
	fmt.Printf("particle: %s\n", meta.Particle)
	fmt.Printf("samples: %d\n\n", len(series))

	plots := []struct {
		caption string
		data    []float64
	}{
		{"height [m]", series.Heights()},
		{"kinetic energy [J]", series.Kinetic()},
		{"mechanical energy [J]", series.Mechanical()},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeReport(cmd *cobra.Command, args []string) error {
	id := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(id)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(id)
	if err != nil {
		return err
	}

	times, heights := series.Times(), series.Heights()
	if len(heights) < analysis.MinSamples {
		return fmt.Errorf("report %s has %d samples, need at least %d", id, len(heights), analysis.MinSamples)
	}

	fmt.Printf("bounce analysis: %s\n", meta.ID)
	fmt.Printf("particle: %s\n\n", meta.Particle)

	dt, err := analysis.SampleInterval(times)
	if err != nil {
		return err
	}
	freq, err := analysis.DominantFrequency(heights, dt)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	apexes := analysis.Apexes(times, heights)
	floor := heights[0]
	for _, h := range heights {
		floor = min(floor, h)
	}
	ratios := analysis.ApexRestitution(apexes, floor)
	if len(ratios) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\nAPEX\tTIME\tHEIGHT\tE")
		for i, a := range apexes {
			e := "-"
			if i > 0 && i-1 < len(ratios) {
				e = fmt.Sprintf("%.4f", ratios[i-1])
			}
			fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%s\n", i, a.X, a.Y, e)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("analytical e: %.4f\n", meta.Metrics["analytical_restitution"])
	}

	fmt.Println()
	fmt.Println(viz.Separator(60))
	portrait := analysis.NewPhasePortrait(heights, analysis.Derivative(times, heights))
	fmt.Println("phase portrait (height vs vertical velocity)")
	fmt.Println(portrait.ToASCII(60, 20))
	fmt.Println(viz.Separator(60))

	fmt.Println("mechanical energy " + viz.Sparkline(series.Mechanical(), 50))
	return nil
}

func exportReport(cmd *cobra.Command, args []string) error {
	id := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	if exportCSV {
		series, err := st.LoadSeries(id)
		if err != nil {
			return err
		}
		w := csv.NewWriter(os.Stdout)
		w.Write([]string{"time", "height", "kinetic", "potential", "mechanical"})
		for _, s := range series {
			w.Write([]string{
				strconv.FormatFloat(s.Time, 'g', -1, 64),
				strconv.FormatFloat(s.Height, 'g', -1, 64),
				strconv.FormatFloat(s.Kinetic, 'g', -1, 64),
				strconv.FormatFloat(s.Potential, 'g', -1, 64),
				strconv.FormatFloat(s.Mechanical, 'g', -1, 64),
			})
		}
		w.Flush()
		return w.Error()
	}

	meta, err := st.Load(id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listSizes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINCHES\tPIXELS\tFONT\tPREFIX")
	for _, name := range config.ListSizes() {
		s, _ := config.GetSize(name)
		pw, ph := s.Pixels(cfg.Plots.DPI)
		fmt.Fprintf(w, "%s\t%gx%g\t%dx%d\t%g\t%q\n", s.Name, s.Width, s.Height, pw, ph, s.FontSize, s.Prefix)
	}
	return w.Flush()
}
