package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ruancomelli/psin/internal/scene"
)

// EnergySample holds the energies of one particle at one time index.
type EnergySample struct {
	TimeIndex  int
	Time       float64
	Height     float64
	Kinetic    float64
	Potential  float64
	Mechanical float64
}

type EnergySeries []EnergySample

// Energies computes the energy history of p over every index of tl. The
// height is the y coordinate and the mass is the one recorded first.
// Kinetic energy is read from the recorded kineticEnergy property when
// present, otherwise from Velocity.
func Energies(p *scene.Particle, tl *scene.Timeline, gravity r3.Vec) (EnergySeries, error) {
	if tl.Len() == 0 {
		return nil, ErrNoSamples
	}
	mass, err := p.Scalar(MassProperty, tl.First())
	if err != nil {
		return nil, err
	}
	g := r3.Norm(gravity)
	_, recorded := p.Scalars[KineticEnergyProperty]

	out := make(EnergySeries, 0, tl.Len())
	for _, idx := range tl.Indices() {
		t, err := tl.Instant(idx)
		if err != nil {
			return nil, err
		}
		pos, err := p.PositionAt(idx)
		if err != nil {
			return nil, err
		}

		var kinetic float64
		if recorded {
			kinetic, err = p.Scalar(KineticEnergyProperty, idx)
		} else {
			var v r3.Vec
			v, err = p.Vector(VelocityProperty, idx)
			kinetic = 0.5 * mass * r3.Dot(v, v)
		}
		if err != nil {
			return nil, err
		}

		potential := mass * g * pos.Y
		out = append(out, EnergySample{
			TimeIndex:  idx,
			Time:       t,
			Height:     pos.Y,
			Kinetic:    kinetic,
			Potential:  potential,
			Mechanical: kinetic + potential,
		})
	}
	return out, nil
}

// Drift is the absolute change in mechanical energy from the first sample
// to the last.
func (s EnergySeries) Drift() float64 {
	if len(s) == 0 {
		return 0
	}
	return math.Abs(s[len(s)-1].Mechanical - s[0].Mechanical)
}

func (s EnergySeries) column(f func(EnergySample) float64) []float64 {
	out := make([]float64, len(s))
	for i, e := range s {
		out[i] = f(e)
	}
	return out
}

func (s EnergySeries) Times() []float64 {
	return s.column(func(e EnergySample) float64 { return e.Time })
}

func (s EnergySeries) Heights() []float64 {
	return s.column(func(e EnergySample) float64 { return e.Height })
}

func (s EnergySeries) Kinetic() []float64 {
	return s.column(func(e EnergySample) float64 { return e.Kinetic })
}

func (s EnergySeries) Potential() []float64 {
	return s.column(func(e EnergySample) float64 { return e.Potential })
}

func (s EnergySeries) Mechanical() []float64 {
	return s.column(func(e EnergySample) float64 { return e.Mechanical })
}

// MeanEnergy averages the mechanical energy.
type MeanEnergy struct {
	samples int
	total   float64
}

func NewMeanEnergy() *MeanEnergy { return &MeanEnergy{} }

func (m *MeanEnergy) Name() string { return "mean_energy" }

func (m *MeanEnergy) Observe(s EnergySample) {
	m.total += s.Mechanical
	m.samples++
}

func (m *MeanEnergy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanEnergy) Reset() {
	m.total = 0
	m.samples = 0
}

// EnergyDrift tracks the largest mechanical energy deviation relative to
// the first sample.
type EnergyDrift struct {
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s EnergySample) {
	if e.samples == 0 {
		e.initialEnergy = s.Mechanical
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(s.Mechanical-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

func (e *EnergyDrift) String() string {
	return fmt.Sprintf("%.3g%%", 100*e.Value())
}
