package scene

import (
	"errors"
	"image/color"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewTimelineOrdersIndices(t *testing.T) {
	tl, err := NewTimeline(map[int]float64{8: 3.7, 5: 1.5, 11: 4.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	indices := tl.Indices()
	expected := []int{5, 8, 11}
	for i := range expected {
		if indices[i] != expected[i] {
			t.Fatalf("expected indices %v, got %v", expected, indices)
		}
	}
	if tl.First() != 5 || tl.Last() != 11 {
		t.Errorf("expected first 5 and last 11, got %d and %d", tl.First(), tl.Last())
	}

	instant, err := tl.Instant(8)
	if err != nil || instant != 3.7 {
		t.Errorf("expected 3.7 at index 8, got %f (%v)", instant, err)
	}
}

func TestNewTimelineRejectsInvalidMappings(t *testing.T) {
	tests := []struct {
		name string
		m    map[int]float64
	}{
		{"empty", map[int]float64{}},
		{"decreasing", map[int]float64{0: 1.0, 1: 0.5}},
		{"repeated", map[int]float64{0: 1.0, 1: 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTimeline(tt.m); !errors.Is(err, ErrTimeline) {
				t.Errorf("expected ErrTimeline, got %v", err)
			}
		})
	}
}

func TestTimelineStride(t *testing.T) {
	tl, _ := NewTimeline(map[int]float64{0: 0, 1: 0.1, 2: 0.2, 3: 0.3, 4: 0.4})

	tests := []struct {
		n        int
		expected []int
	}{
		{1, []int{0, 1, 2, 3, 4}},
		{2, []int{0, 2, 4}},
		{3, []int{0, 3}},
		{10, []int{0}},
		{0, []int{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		got := tl.Stride(tt.n)
		if len(got) != len(tt.expected) {
			t.Errorf("stride %d: expected %v, got %v", tt.n, tt.expected, got)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("stride %d: expected %v, got %v", tt.n, tt.expected, got)
				break
			}
		}
	}
}

func TestTimelineTimestep(t *testing.T) {
	tl, _ := NewTimeline(map[int]float64{10: 1.0, 20: 2.0})
	dt, err := tl.Timestep()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dt != 0.1 {
		t.Errorf("expected timestep 0.1, got %f", dt)
	}

	single, _ := NewTimeline(map[int]float64{0: 0})
	if _, err := single.Timestep(); !errors.Is(err, ErrTimeline) {
		t.Errorf("expected ErrTimeline for single record, got %v", err)
	}
}

func TestTimelineMissingIndex(t *testing.T) {
	tl, _ := NewTimeline(map[int]float64{0: 0})
	_, err := tl.Instant(3)

	var mde *MissingDataError
	if !errors.As(err, &mde) {
		t.Fatalf("expected MissingDataError, got %v", err)
	}
	if mde.TimeIndex != 3 || !errors.Is(err, ErrMissingTimeIndex) {
		t.Errorf("unexpected error contents: %+v", mde)
	}
}

func TestColorResolve(t *testing.T) {
	tests := []struct {
		name     string
		c        Color
		expected color.RGBA
	}{
		{"rgb fallback", Color{RGB: [3]float64{1, 0, 0}}, color.RGBA{R: 255, A: 255}},
		{"rgb clamped", Color{RGB: [3]float64{2, -1, 0.5}}, color.RGBA{R: 255, G: 0, B: 128, A: 255}},
		{"short name", Color{RGB: [3]float64{1, 1, 1}, Name: "b"}, color.RGBA{B: 255, A: 255}},
		{"css name", Color{Name: "Navy"}, color.RGBA{R: 0, G: 0, B: 128, A: 255}},
		{"hex", Color{Name: "#00ff00"}, color.RGBA{G: 255, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.c.Resolve()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestColorResolveUnknown(t *testing.T) {
	for _, name := range []string{"not-a-color", "#zzzzzz"} {
		if _, err := (Color{Name: name}).Resolve(); !errors.Is(err, ErrUnknownColor) {
			t.Errorf("%q: expected ErrUnknownColor, got %v", name, err)
		}
	}
}

func newTestDataset() *Dataset {
	tl, _ := NewTimeline(map[int]float64{0: 0, 1: 0.5})
	ball := &Particle{
		Entity:   Entity{Kind: "SphericalParticle", Name: "Ball"},
		Position: History[r3.Vec]{0: {X: 0, Y: 0}, 1: {X: 4, Y: 3}},
		Radius:   History[float64]{0: 1, 1: 1},
		Color:    History[Color]{0: {Name: "r"}, 1: {Name: "r"}},
	}
	wall := &Boundary{
		Entity:       Entity{Kind: "FixedInfinitePlane", Name: "Wall"},
		NormalVersor: History[r3.Vec]{0: {Y: 1}, 1: {Y: 1}},
		Origin:       History[r3.Vec]{0: {}, 1: {}},
		Color:        History[Color]{0: {Name: "k"}},
	}
	gravity := &Boundary{
		Entity: Entity{Kind: "GravityField", Name: "Gravity"},
		Properties: Properties{Vectors: map[string]History[r3.Vec]{
			"Gravity": {0: {Y: -9.81}},
		}},
	}
	return &Dataset{
		Timeline:   tl,
		Particles:  []*Particle{ball},
		Boundaries: []*Boundary{wall, gravity},
	}
}

func TestDatasetPlanesAndLookup(t *testing.T) {
	d := newTestDataset()
	d.Sort()

	planes := d.Planes()
	if len(planes) != 1 || planes[0].Name != "Wall" {
		t.Fatalf("expected only Wall as plane, got %d planes", len(planes))
	}

	g, err := d.Boundary("Gravity")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := g.Vector("Gravity", 0)
	if err != nil || v.Y != -9.81 {
		t.Errorf("expected gravity -9.81, got %v (%v)", v, err)
	}

	if _, err := d.Particle("Nope"); err == nil {
		t.Error("expected error for unknown particle")
	}
}

func TestDatasetValidateReportsMissingIndex(t *testing.T) {
	d := newTestDataset()

	if err := d.Validate([]int{0}); err != nil {
		t.Fatalf("index 0 should be complete: %v", err)
	}

	err := d.Validate([]int{0, 1})
	var mde *MissingDataError
	if !errors.As(err, &mde) {
		t.Fatalf("expected MissingDataError, got %v", err)
	}
	if mde.Property != "Color" || mde.TimeIndex != 1 {
		t.Errorf("expected missing Color at 1, got %+v", mde)
	}
}

func TestDatasetDisks(t *testing.T) {
	d := newTestDataset()
	disks, err := d.Disks(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(disks) != 1 || disks[0].Center.X != 4 || disks[0].Center.Y != 3 || disks[0].Radius != 1 {
		t.Errorf("unexpected disks %+v", disks)
	}
}

func TestMissingPropertyError(t *testing.T) {
	p := &Particle{Entity: Entity{Kind: "SphericalParticle", Name: "Ball"}}
	_, err := p.Scalar("Mass", 0)
	if !errors.Is(err, ErrMissingProperty) {
		t.Errorf("expected ErrMissingProperty, got %v", err)
	}
}
