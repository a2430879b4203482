// Package metrics derives physical quantities from a recorded simulation:
// coefficients of restitution and energy histories.
package metrics

import "errors"

var (
	ErrInvalidParameter = errors.New("metrics: invalid parameter")
	ErrNoSamples        = errors.New("metrics: no samples")
)

// Metric accumulates a scalar over a sequence of energy samples.
type Metric interface {
	Name() string
	Observe(s EnergySample)
	Value() float64
	Reset()
}

// Observe feeds every sample of series to each metric.
func Observe(series EnergySeries, ms ...Metric) {
	for _, s := range series {
		for _, m := range ms {
			m.Observe(s)
		}
	}
}
