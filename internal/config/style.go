package config

import (
	"sort"
)

// Style is the look shared by every chart and frame. It is passed by value
// so callers cannot change it under each other.
type Style struct {
	FontFamily    string  `yaml:"font_family"`
	FontWeight    string  `yaml:"font_weight"`
	TickLabelSize float64 `yaml:"tick_label_size"`
	MarkerSize    float64 `yaml:"marker_size"`
	LineWidth     float64 `yaml:"line_width"`
	Grid          string  `yaml:"grid"`
	Analytical    string  `yaml:"analytical"`
	Measured      string  `yaml:"measured"`
	Series        string  `yaml:"series"`
	Background    string  `yaml:"background"`
	ParticleFill  string  `yaml:"particle_fill"`
	Label         string  `yaml:"label"`
}

func DefaultStyle() Style {
	return Style{
		FontFamily:    "serif",
		FontWeight:    "light",
		TickLabelSize: 10,
		MarkerSize:    3,
		LineWidth:     1,
		Grid:          "#cccccc",
		Analytical:    "black",
		Measured:      "red",
		Series:        "#801a1a",
		Background:    "white",
		ParticleFill:  "white",
		Label:         "black",
	}
}

// FigureSize is a named chart size in inches.
type FigureSize struct {
	Name     string
	Width    float64
	Height   float64
	FontSize float64
	// Prefix is prepended to every file name written at this size.
	Prefix string
}

// Pixels converts the size to a raster at dpi.
func (s FigureSize) Pixels(dpi float64) (int, int) {
	return int(s.Width*dpi + 0.5), int(s.Height*dpi + 0.5)
}

var Sizes = map[string]FigureSize{
	"normal": {Name: "normal", Width: 6, Height: 4, FontSize: 11},
	"small":  {Name: "small", Width: 2.8, Height: 2, FontSize: 9, Prefix: "small_"},
}

func GetSize(name string) (FigureSize, bool) {
	s, ok := Sizes[name]
	return s, ok
}

func ListSizes() []string {
	names := make([]string, 0, len(Sizes))
	for name := range Sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
