package scene

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ruancomelli/psin/internal/geom"
)

// History is a property recorded per time index.
type History[T any] map[int]T

func lookup[T any](h History[T], entity, property string, idx int) (T, error) {
	var zero T
	if h == nil {
		return zero, &MissingDataError{Entity: entity, Property: property, TimeIndex: idx, Wrapped: ErrMissingProperty}
	}
	v, ok := h[idx]
	if !ok {
		return zero, &MissingDataError{Entity: entity, Property: property, TimeIndex: idx, Wrapped: ErrMissingTimeIndex}
	}
	return v, nil
}

// Properties holds the recorded histories that the frame layout does not
// need, such as masses, energies and material constants.
type Properties struct {
	Scalars map[string]History[float64]
	Vectors map[string]History[r3.Vec]
}

// Entity identifies a particle or boundary by kind and name.
type Entity struct {
	Kind string
	Name string
}

func (e Entity) String() string { return e.Kind + "/" + e.Name }

// Particle is the recorded history of one spherical particle.
type Particle struct {
	Entity
	Properties

	Position History[r3.Vec]
	Radius   History[float64]
	Color    History[Color]
}

// ParticleState is a particle at one time index, color resolved.
type ParticleState struct {
	Position r3.Vec
	Radius   float64
	Color    color.RGBA
}

// Disk returns the ground-plane footprint of the particle.
func (s ParticleState) Disk() geom.Disk {
	return geom.Disk{Center: r2.Vec{X: s.Position.X, Y: s.Position.Y}, Radius: s.Radius}
}

// At returns the particle state recorded at idx.
func (p *Particle) At(idx int) (ParticleState, error) {
	name := p.String()
	pos, err := lookup(p.Position, name, "Position", idx)
	if err != nil {
		return ParticleState{}, err
	}
	radius, err := lookup(p.Radius, name, "Radius", idx)
	if err != nil {
		return ParticleState{}, err
	}
	c, err := lookup(p.Color, name, "Color", idx)
	if err != nil {
		return ParticleState{}, err
	}
	rgba, err := c.Resolve()
	if err != nil {
		return ParticleState{}, err
	}
	return ParticleState{Position: pos, Radius: radius, Color: rgba}, nil
}

// PositionAt returns only the position recorded at idx.
func (p *Particle) PositionAt(idx int) (r3.Vec, error) {
	return lookup(p.Position, p.String(), "Position", idx)
}

func (p *Particle) Scalar(property string, idx int) (float64, error) {
	return lookup(p.Scalars[property], p.String(), property, idx)
}

func (p *Particle) Vector(property string, idx int) (r3.Vec, error) {
	return lookup(p.Vectors[property], p.String(), property, idx)
}

// Boundary is the recorded history of one boundary. Planes carry a normal
// versor and an origin; fields such as gravity only carry properties.
type Boundary struct {
	Entity
	Properties

	NormalVersor History[r3.Vec]
	Origin       History[r3.Vec]
	Color        History[Color]
}

// PlaneState is a plane boundary at one time index, color resolved.
type PlaneState struct {
	Normal r3.Vec
	Origin r3.Vec
	Color  color.RGBA
}

// IsPlane reports whether b has plane geometry.
func (b *Boundary) IsPlane() bool {
	return b.NormalVersor != nil && b.Origin != nil
}

// At returns the plane state recorded at idx.
func (b *Boundary) At(idx int) (PlaneState, error) {
	name := b.String()
	normal, err := lookup(b.NormalVersor, name, "NormalVersor", idx)
	if err != nil {
		return PlaneState{}, err
	}
	origin, err := lookup(b.Origin, name, "Origin", idx)
	if err != nil {
		return PlaneState{}, err
	}
	c, err := lookup(b.Color, name, "Color", idx)
	if err != nil {
		return PlaneState{}, err
	}
	rgba, err := c.Resolve()
	if err != nil {
		return PlaneState{}, err
	}
	return PlaneState{Normal: normal, Origin: origin, Color: rgba}, nil
}

func (b *Boundary) Scalar(property string, idx int) (float64, error) {
	return lookup(b.Scalars[property], b.String(), property, idx)
}

func (b *Boundary) Vector(property string, idx int) (r3.Vec, error) {
	return lookup(b.Vectors[property], b.String(), property, idx)
}

// Collision is one contact recorded by the simulator: the normal velocity
// before and after it and the span of time indices it lasted.
type Collision struct {
	Velocities  [2]float64 `json:"velocities"`
	TimeIndices [2]int     `json:"timeIndices"`
}
