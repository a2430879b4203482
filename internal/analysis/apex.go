package analysis

import "math"

// Apexes returns the strict local maxima of values, one per bounce. A
// plateau counts once, at its first sample.
func Apexes(times, values []float64) []Point {
	n := min(len(times), len(values))
	var out []Point
	for i := 1; i < n-1; i++ {
		if values[i] <= values[i-1] {
			continue
		}
		j := i
		for j+1 < n && values[j+1] == values[i] {
			j++
		}
		if j+1 < n && values[j+1] < values[i] {
			out = append(out, Point{X: times[i], Y: values[i]})
		}
	}
	return out
}

// ApexRestitution estimates the coefficient of restitution from successive
// bounce heights above floor, as sqrt(h[k+1]/h[k]).
func ApexRestitution(apexes []Point, floor float64) []float64 {
	if len(apexes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(apexes)-1)
	for k := 0; k+1 < len(apexes); k++ {
		h0, h1 := apexes[k].Y-floor, apexes[k+1].Y-floor
		if h0 <= 0 || h1 < 0 {
			continue
		}
		out = append(out, math.Sqrt(h1/h0))
	}
	return out
}
