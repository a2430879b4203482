package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ruancomelli/psin/internal/config"
)

var (
	configFile string
	outputDir  string
	reportsDir string

	// simulate / process
	simulationName string
	runSimulator   bool
	renderVideo    bool

	// animation
	videoFormat  string
	viewportMode string
	stride       int
	sigFigs      int
	pixels       int
	duration     float64

	// frames
	frameNumber int
	braille     bool
	trajectory  bool

	// preview
	themeName string

	// export
	exportCSV bool
)

// main runs the command named on the command line and exits with status 1
// if it fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd registers the psin commands. Registering resets every flag
// variable to its default.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "psin",
		Short:         "particle simulation post-processor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", config.DefaultOutput, "simulator output directory")
	rootCmd.PersistentFlags().StringVar(&reportsDir, "reports", config.DefaultReports, "report store directory")

	simulateCmd := &cobra.Command{
		Use:   "simulate [name]",
		Short: "run the simulator and wait for it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  simulate,
	}

	processCmd := &cobra.Command{
		Use:   "process [dir]",
		Short: "compute metrics, store a report and write charts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  process,
	}
	processCmd.Flags().BoolVar(&runSimulator, "simulate", false, "run the simulator first")
	processCmd.Flags().StringVar(&simulationName, "name", "", "simulation name (defaults to the directory name)")
	processCmd.Flags().BoolVar(&renderVideo, "video", false, "also render the animation")

	animateCmd := &cobra.Command{
		Use:   "animate [dir]",
		Short: "render the animation video",
		Args:  cobra.MaximumNArgs(1),
		RunE:  animate,
	}

	framesCmd := &cobra.Command{
		Use:   "frames [dir]",
		Short: "write svg snapshots of the animation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeFrames,
	}
	framesCmd.Flags().IntVar(&frameNumber, "frame", -1, "write only this frame")
	framesCmd.Flags().BoolVar(&braille, "braille", false, "write the terminal rendering instead")
	framesCmd.Flags().BoolVar(&trajectory, "trajectory", false, "also write the selected particle's path")

	previewCmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "play the animation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  preview,
	}
	previewCmd.Flags().StringVar(&themeName, "theme", "minimal", "color theme")

	for _, c := range []*cobra.Command{processCmd, animateCmd, framesCmd, previewCmd} {
		c.Flags().IntVar(&stride, "stride", config.DefaultStride, "time indices between frames")
		c.Flags().IntVar(&sigFigs, "sig-figs", config.DefaultSignificantFigures, "significant figures of the time label")
		c.Flags().StringVar(&viewportMode, "viewport", "frame", "viewport mode (frame, global)")
		c.Flags().Float64Var(&duration, "duration", config.DefaultAnimationTime, "animation length in seconds")
	}
	for _, c := range []*cobra.Command{processCmd, animateCmd, framesCmd} {
		c.Flags().IntVar(&pixels, "pixels", config.DefaultFramePixels, "frame width and height")
	}
	for _, c := range []*cobra.Command{processCmd, animateCmd} {
		c.Flags().StringVar(&videoFormat, "format", "avi", "video format (avi, gif)")
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored reports",
		RunE:  listReports,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [report_id]",
		Short: "plot a report's energy history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotReport,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [report_id]",
		Short: "bounce frequency and apex analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeReport,
	}

	exportCmd := &cobra.Command{
		Use:   "export [report_id]",
		Short: "export report metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportReport,
	}
	exportCmd.Flags().BoolVar(&exportCSV, "csv", false, "export the energy history as csv")

	sizesCmd := &cobra.Command{
		Use:   "sizes",
		Short: "list figure sizes",
		RunE:  listSizes,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(simulateCmd, processCmd, animateCmd, framesCmd, previewCmd,
		listCmd, plotCmd, analyzeCmd, exportCmd, sizesCmd, initCmd)
	return rootCmd
}

// loadConfig reads the config file, if any, and applies the flags the user
// set explicitly on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = outputDir
	}
	if flags.Changed("reports") {
		cfg.Reports = reportsDir
	}
	if flags.Changed("stride") {
		cfg.Animation.Stride = stride
	}
	if flags.Changed("sig-figs") {
		cfg.Animation.SignificantFigures = sigFigs
	}
	if flags.Changed("viewport") {
		cfg.Animation.Viewport = viewportMode
	}
	if flags.Changed("duration") {
		cfg.Animation.Duration = duration
	}
	if flags.Changed("pixels") {
		cfg.Animation.Pixels = pixels
	}
	if flags.Changed("format") {
		cfg.Animation.Format = videoFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// dataDir is the positional directory argument or the configured output.
func dataDir(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Output
}

func writeConfig(cmd *cobra.Command, args []string) error {
	path := "psin.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}
