package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ruancomelli/psin/internal/metrics"
)

const (
	DefaultOutput             = "output"
	DefaultReports            = "reports"
	DefaultAnimationTime      = 6.0
	DefaultStride             = 2
	DefaultSignificantFigures = 2
	DefaultFramePixels        = 480
	DefaultJPEGQuality        = 90
	DefaultDPI                = 100.0
	DefaultMarkerThreshold    = 100
)

type Config struct {
	Output    string            `yaml:"output"`
	Reports   string            `yaml:"reports"`
	Simulator SimulatorConfig   `yaml:"simulator"`
	Selection metrics.Selection `yaml:"selection"`
	Animation AnimationConfig   `yaml:"animation"`
	Plots     PlotsConfig       `yaml:"plots"`
	Style     Style             `yaml:"style"`
}

type SimulatorConfig struct {
	Program string   `yaml:"program"`
	Input   string   `yaml:"input"`
	Args    []string `yaml:"args"`
}

type AnimationConfig struct {
	// Duration is the length of the video in seconds, whatever the number
	// of frames.
	Duration           float64 `yaml:"duration"`
	Stride             int     `yaml:"stride"`
	SignificantFigures int     `yaml:"significant_figures"`
	Viewport           string  `yaml:"viewport"`
	Format             string  `yaml:"format"`
	Pixels             int     `yaml:"pixels"`
	Quality            int     `yaml:"quality"`
}

type PlotsConfig struct {
	Sizes           []string `yaml:"sizes"`
	Format          string   `yaml:"format"`
	DPI             float64  `yaml:"dpi"`
	MarkerThreshold int      `yaml:"marker_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Output:    DefaultOutput,
		Reports:   DefaultReports,
		Selection: metrics.DefaultSelection(),
		Animation: AnimationConfig{
			Duration:           DefaultAnimationTime,
			Stride:             DefaultStride,
			SignificantFigures: DefaultSignificantFigures,
			Viewport:           "frame",
			Format:             "avi",
			Pixels:             DefaultFramePixels,
			Quality:            DefaultJPEGQuality,
		},
		Plots: PlotsConfig{
			Sizes:           []string{"normal", "small"},
			Format:          "png",
			DPI:             DefaultDPI,
			MarkerThreshold: DefaultMarkerThreshold,
		},
		Style: DefaultStyle(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	a := c.Animation
	switch {
	case a.Duration <= 0:
		return fmt.Errorf("config: animation duration must be positive, got %g", a.Duration)
	case a.Stride < 1:
		return fmt.Errorf("config: animation stride must be at least 1, got %d", a.Stride)
	case a.SignificantFigures < 1:
		return fmt.Errorf("config: significant figures must be at least 1, got %d", a.SignificantFigures)
	case a.Viewport != "frame" && a.Viewport != "global":
		return fmt.Errorf("config: unknown viewport mode %q", a.Viewport)
	case a.Format != "avi" && a.Format != "gif":
		return fmt.Errorf("config: unknown video format %q", a.Format)
	case a.Pixels < 16:
		return fmt.Errorf("config: frame size %d is too small", a.Pixels)
	case a.Quality < 1 || a.Quality > 100:
		return fmt.Errorf("config: JPEG quality must be in [1, 100], got %d", a.Quality)
	}

	p := c.Plots
	if p.Format != "png" && p.Format != "svg" {
		return fmt.Errorf("config: unknown plot format %q", p.Format)
	}
	if p.DPI <= 0 {
		return fmt.Errorf("config: dpi must be positive, got %g", p.DPI)
	}
	for _, name := range p.Sizes {
		if _, ok := GetSize(name); !ok {
			return fmt.Errorf("config: unknown figure size %q", name)
		}
	}
	return nil
}

// FrameRate spreads frames evenly over the animation duration.
func (a AnimationConfig) FrameRate(frames int) float64 {
	if a.Duration <= 0 {
		return 0
	}
	return float64(frames) / a.Duration
}
