package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDominantFrequency(t *testing.T) {
	dt := 1.0 / 64
	data := make([]float64, 256)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*5*float64(i)*dt)
	}

	f, err := DominantFrequency(data, dt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(f-5) > 1e-9 {
		t.Errorf("expected 5 Hz, got %f", f)
	}
}

func TestDominantFrequencySparseRecords(t *testing.T) {
	// Every tenth step of a 0.005 s integration is recorded.
	const timestep = 0.005
	var times, data []float64
	for idx := 0; idx < 2000; idx += 10 {
		tt := float64(idx) * timestep
		times = append(times, tt)
		data = append(data, math.Sin(2*math.Pi*tt))
	}

	dt, err := SampleInterval(times)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(dt-0.05) > 1e-12 {
		t.Errorf("expected interval 0.05, got %f", dt)
	}
	f, err := DominantFrequency(data, dt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(f-1) > 0.1 {
		t.Errorf("expected about 1 Hz, got %f", f)
	}
}

func TestSampleIntervalErrors(t *testing.T) {
	if _, err := SampleInterval([]float64{1}); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
	if _, err := SampleInterval([]float64{1, 1, 1}); err == nil {
		t.Error("expected error for constant times")
	}
	if _, err := SampleInterval([]float64{2, 1}); err == nil {
		t.Error("expected error for decreasing times")
	}
}

func TestDominantFrequencyErrors(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2, 3}, 0.1); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
	if _, err := DominantFrequency([]float64{1, 2, 3, 4}, 0); err == nil {
		t.Error("expected error for zero sampling interval")
	}
}

func TestPowerSpectrumPadsToPowerOfTwo(t *testing.T) {
	ps := PowerSpectrum([]float64{1, 1, 1, 1, 1})
	if len(ps) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(ps))
	}
	if math.Abs(ps[0]-5) > 1e-9 {
		t.Errorf("expected DC magnitude 5, got %f", ps[0])
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for no data")
	}
}

func TestDerivative(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	values := []float64{0, 1, 4, 9}

	d := Derivative(times, values)
	expected := []float64{1, 2, 4, 5}
	for i := range expected {
		if d[i] != expected[i] {
			t.Errorf("index %d: expected %f, got %f", i, expected[i], d[i])
		}
	}
}

func TestApexes(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	heights := []float64{0, 1, 0, 0.5, 0.5, 0, 0.25, 0}

	apexes := Apexes(times, heights)
	expected := []Point{{1, 1}, {3, 0.5}, {6, 0.25}}
	if len(apexes) != len(expected) {
		t.Fatalf("expected %d apexes, got %v", len(expected), apexes)
	}
	for i := range expected {
		if apexes[i] != expected[i] {
			t.Errorf("apex %d: expected %v, got %v", i, expected[i], apexes[i])
		}
	}

	e := ApexRestitution(apexes, 0)
	if len(e) != 2 || math.Abs(e[0]-math.Sqrt(0.5)) > 1e-12 || math.Abs(e[1]-math.Sqrt(0.5)) > 1e-12 {
		t.Errorf("expected two estimates of sqrt(0.5), got %v", e)
	}
}

func TestPhasePortraitASCII(t *testing.T) {
	p := NewPhasePortrait([]float64{-1, 0, 1}, []float64{1, 0, -1, 5})
	if len(p.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(p.Points))
	}

	out := p.ToASCII(20, 10)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "│") || !strings.Contains(out, "─") {
		t.Errorf("expected points and both axes:\n%s", out)
	}

	var empty *PhasePortrait2D
	if empty.ToASCII(20, 10) != "" {
		t.Error("expected empty drawing for nil portrait")
	}
}
