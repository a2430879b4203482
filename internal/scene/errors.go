package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTimeIndex indicates an entity has no record for a time index.
	ErrMissingTimeIndex = errors.New("scene: missing time index")

	// ErrMissingProperty indicates an entity never recorded a property.
	ErrMissingProperty = errors.New("scene: missing property")

	// ErrUnknownColor indicates a color name that cannot be resolved.
	ErrUnknownColor = errors.New("scene: unknown color")

	// ErrTimeline indicates a time mapping that is empty or not strictly
	// increasing.
	ErrTimeline = errors.New("scene: invalid timeline")
)

// MissingDataError wraps a missing-data error with the entity and property
// that were looked up.
type MissingDataError struct {
	Entity    string
	Property  string
	TimeIndex int
	Wrapped   error
}

func (e *MissingDataError) Error() string {
	if errors.Is(e.Wrapped, ErrMissingProperty) {
		return fmt.Sprintf("%s: %s %q", e.Wrapped, e.Entity, e.Property)
	}
	return fmt.Sprintf("%s: %s %q at index %d", e.Wrapped, e.Entity, e.Property, e.TimeIndex)
}

func (e *MissingDataError) Unwrap() error {
	return e.Wrapped
}
