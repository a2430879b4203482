package geom

import "errors"

var (
	// ErrNoParticles indicates a bounding box was requested for zero disks.
	ErrNoParticles = errors.New("geom: no particles to bound")

	// ErrDegenerateTrace indicates a plane parallel to the ground plane,
	// whose trace on it is undefined.
	ErrDegenerateTrace = errors.New("geom: plane has no trace on the ground plane")

	// ErrNonFinite indicates a NaN or Inf coordinate in the input.
	ErrNonFinite = errors.New("geom: non-finite coordinate")
)
