package scene

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is a recorded entity color: an explicit name, or an RGB triple with
// components in [0, 1] used when the name is empty.
type Color struct {
	RGB  [3]float64
	Name string
}

// Single-letter codes understood by the plotting scripts the simulator was
// written against.
var shortNames = map[string]color.RGBA{
	"b": {R: 0, G: 0, B: 255, A: 255},
	"g": {R: 0, G: 128, B: 0, A: 255},
	"r": {R: 255, G: 0, B: 0, A: 255},
	"c": {R: 0, G: 191, B: 191, A: 255},
	"m": {R: 191, G: 0, B: 191, A: 255},
	"y": {R: 191, G: 191, B: 0, A: 255},
	"k": {R: 0, G: 0, B: 0, A: 255},
	"w": {R: 255, G: 255, B: 255, A: 255},
}

// Resolve turns c into an opaque RGBA color.
func (c Color) Resolve() (color.RGBA, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return color.RGBA{
			R: channel(c.RGB[0]),
			G: channel(c.RGB[1]),
			B: channel(c.RGB[2]),
			A: 255,
		}, nil
	}

	lower := strings.ToLower(name)
	if rgba, ok := shortNames[lower]; ok {
		return rgba, nil
	}
	if rgba, ok := colornames.Map[lower]; ok {
		return rgba, nil
	}
	if strings.HasPrefix(name, "#") {
		hex, err := colorful.Hex(name)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q: %v", ErrUnknownColor, name, err)
		}
		r, g, b := hex.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	}
	return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

func channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * 255))
}
