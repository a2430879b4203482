package scene

import (
	"fmt"
	"sort"

	"github.com/ruancomelli/psin/internal/geom"
)

// Dataset is everything read from one simulation output.
type Dataset struct {
	Settings   map[string]any
	Timeline   *Timeline
	Particles  []*Particle
	Boundaries []*Boundary
}

// Sort orders particles and boundaries by kind and name so that frames and
// reports never depend on decoding order.
func (d *Dataset) Sort() {
	sort.Slice(d.Particles, func(i, j int) bool {
		return less(d.Particles[i].Entity, d.Particles[j].Entity)
	})
	sort.Slice(d.Boundaries, func(i, j int) bool {
		return less(d.Boundaries[i].Entity, d.Boundaries[j].Entity)
	})
}

func less(a, b Entity) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Name < b.Name
}

// Particle finds a particle by name.
func (d *Dataset) Particle(name string) (*Particle, error) {
	for _, p := range d.Particles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: particle %q", ErrMissingProperty, name)
}

// Boundary finds a boundary by name.
func (d *Dataset) Boundary(name string) (*Boundary, error) {
	for _, b := range d.Boundaries {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: boundary %q", ErrMissingProperty, name)
}

// Planes returns the boundaries with plane geometry.
func (d *Dataset) Planes() []*Boundary {
	planes := make([]*Boundary, 0, len(d.Boundaries))
	for _, b := range d.Boundaries {
		if b.IsPlane() {
			planes = append(planes, b)
		}
	}
	return planes
}

// Disks returns the footprint of every particle at idx.
func (d *Dataset) Disks(idx int) ([]geom.Disk, error) {
	disks := make([]geom.Disk, 0, len(d.Particles))
	for _, p := range d.Particles {
		s, err := p.At(idx)
		if err != nil {
			return nil, err
		}
		disks = append(disks, s.Disk())
	}
	return disks, nil
}

// Validate checks that every particle and plane has a complete record at
// each of the given indices.
func (d *Dataset) Validate(indices []int) error {
	for _, idx := range indices {
		if _, err := d.Timeline.Instant(idx); err != nil {
			return err
		}
		for _, p := range d.Particles {
			if _, err := p.At(idx); err != nil {
				return err
			}
		}
		for _, b := range d.Planes() {
			if _, err := b.At(idx); err != nil {
				return err
			}
		}
	}
	return nil
}
