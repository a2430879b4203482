package animation

import (
	"math"
	"strconv"
)

// RoundToN rounds x to n significant figures, half to even on the exact
// binary value. Zero stays zero and n below one is treated as one.
func RoundToN(x float64, n int) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	if n < 1 {
		n = 1
	}
	// Formatting in 'e' notation rounds in decimal, so subnormal values
	// never overflow a power of ten and results carry no scaling error.
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'e', n-1, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// Label formats an elapsed time as the frame title.
func Label(t float64, n int) string {
	return strconv.FormatFloat(RoundToN(t, n), 'g', -1, 64) + " s"
}
