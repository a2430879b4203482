package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

var ErrTooFewSamples = errors.New("analysis: too few samples")

// MinSamples is the shortest history DominantFrequency accepts.
const MinSamples = 4

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data, zero padded to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	padded := make([]float64, nextPow2(len(data)))
	copy(padded, data)

	coeffs := fft.FFTReal(padded)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// SampleInterval returns the mean spacing of increasing sample times. Stored
// histories may skip step indices, so this is the interval to pass to
// DominantFrequency rather than the simulator timestep.
func SampleInterval(times []float64) (float64, error) {
	if len(times) < 2 {
		return 0, fmt.Errorf("%w: have %d, need 2", ErrTooFewSamples, len(times))
	}
	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return 0, fmt.Errorf("analysis: sample times are not increasing")
	}
	return dt, nil
}

// DominantFrequency returns the frequency of the strongest non-constant
// component of data sampled every dt.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if len(data) < MinSamples {
		return 0, fmt.Errorf("%w: have %d, need %d", ErrTooFewSamples, len(data), MinSamples)
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return 0, fmt.Errorf("analysis: invalid sampling interval %g", dt)
	}

	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-floats.Sum(data)/float64(len(data)), centered)

	ps := PowerSpectrum(centered)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	n := nextPow2(len(data))
	return float64(best) / (float64(n) * dt), nil
}
