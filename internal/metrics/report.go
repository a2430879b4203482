package metrics

import (
	"fmt"
	"math"

	"github.com/ruancomelli/psin/internal/analysis"
	"github.com/ruancomelli/psin/internal/scene"
)

// Selection names the entities a report is about.
type Selection struct {
	Particle string `yaml:"particle" json:"particle"`
	Wall     string `yaml:"wall" json:"wall"`
	Gravity  string `yaml:"gravity" json:"gravity"`
}

// DefaultSelection matches the entity names of the bouncing-sphere example.
func DefaultSelection() Selection {
	return Selection{Particle: "Particle", Wall: "Wall", Gravity: "Gravity"}
}

// Report summarizes a bouncing-particle run.
type Report struct {
	Particle string  `json:"particle"`
	Timestep float64 `json:"timestep"`
	// SampleInterval is the mean time between stored records, which is a
	// multiple of Timestep when the simulator skips indices.
	SampleInterval float64           `json:"sample_interval"`
	Contact        Contact           `json:"contact"`
	Analytical     float64           `json:"analytical_restitution"`
	Collisions     []CollisionSample `json:"collisions"`

	// MaxDeviation is the largest |e - Analytical| over Collisions.
	MaxDeviation float64 `json:"max_deviation"`

	InitialEnergy    float64 `json:"initial_energy"`
	FinalEnergy      float64 `json:"final_energy"`
	MeanEnergy       float64 `json:"mean_energy"`
	Drift            float64 `json:"drift"`
	MaxRelativeDrift float64 `json:"max_relative_drift"`
}

// Analyze builds the report for sel and returns the energy history it was
// computed from.
func Analyze(d *scene.Dataset, records []scene.Collision, sel Selection) (*Report, EnergySeries, error) {
	p, err := d.Particle(sel.Particle)
	if err != nil {
		return nil, nil, err
	}
	wall, err := d.Boundary(sel.Wall)
	if err != nil {
		return nil, nil, err
	}
	field, err := d.Boundary(sel.Gravity)
	if err != nil {
		return nil, nil, err
	}

	first := d.Timeline.First()
	gravity, err := field.Vector(GravityProperty, first)
	if err != nil {
		return nil, nil, err
	}
	dt, err := d.Timeline.Timestep()
	if err != nil {
		return nil, nil, err
	}

	interval, err := analysis.SampleInterval(d.Timeline.Instants())
	if err != nil {
		return nil, nil, err
	}

	contact, err := NewContact(p, wall, first)
	if err != nil {
		return nil, nil, err
	}
	analytical, err := contact.Restitution()
	if err != nil {
		return nil, nil, fmt.Errorf("%s against %s: %w", p, wall, err)
	}

	samples, err := MeasuredRestitution(records, gravity, dt)
	if err != nil {
		return nil, nil, err
	}

	series, err := Energies(p, d.Timeline, gravity)
	if err != nil {
		return nil, nil, err
	}

	r := &Report{
		Particle:       p.String(),
		Timestep:       dt,
		SampleInterval: interval,
		Contact:        contact,
		Analytical:     analytical,
		Collisions:     samples,
		InitialEnergy:  series[0].Mechanical,
		FinalEnergy:    series[len(series)-1].Mechanical,
		Drift:          series.Drift(),
	}
	for _, s := range samples {
		r.MaxDeviation = math.Max(r.MaxDeviation, math.Abs(s.Restitution-analytical))
	}

	mean, drift := NewMeanEnergy(), NewEnergyDrift()
	Observe(series, mean, drift)
	r.MeanEnergy = mean.Value()
	r.MaxRelativeDrift = drift.Value()

	return r, series, nil
}
