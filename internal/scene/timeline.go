package scene

import (
	"fmt"
	"sort"
)

// Timeline maps simulation step indices to elapsed physical time. Indices
// and instants are both strictly increasing.
type Timeline struct {
	indices  []int
	instants []float64
	position map[int]int
}

// NewTimeline orders the mapping by step index and checks that time grows
// with it.
func NewTimeline(m map[int]float64) (*Timeline, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: no time indices", ErrTimeline)
	}

	indices := make([]int, 0, len(m))
	for idx := range m {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	tl := &Timeline{
		indices:  indices,
		instants: make([]float64, len(indices)),
		position: make(map[int]int, len(indices)),
	}
	for i, idx := range indices {
		tl.instants[i] = m[idx]
		tl.position[idx] = i
		if i > 0 && tl.instants[i] <= tl.instants[i-1] {
			return nil, fmt.Errorf("%w: time %g at index %d does not follow %g at index %d",
				ErrTimeline, tl.instants[i], idx, tl.instants[i-1], indices[i-1])
		}
	}
	return tl, nil
}

func (t *Timeline) Len() int { return len(t.indices) }

// Indices returns the step indices in increasing order.
func (t *Timeline) Indices() []int {
	out := make([]int, len(t.indices))
	copy(out, t.indices)
	return out
}

// Instants returns the elapsed times in index order.
func (t *Timeline) Instants() []float64 {
	out := make([]float64, len(t.instants))
	copy(out, t.instants)
	return out
}

func (t *Timeline) First() int { return t.indices[0] }
func (t *Timeline) Last() int  { return t.indices[len(t.indices)-1] }

// Instant returns the elapsed time recorded for idx.
func (t *Timeline) Instant(idx int) (float64, error) {
	pos, ok := t.position[idx]
	if !ok {
		return 0, &MissingDataError{Entity: "timeline", Property: "time", TimeIndex: idx, Wrapped: ErrMissingTimeIndex}
	}
	return t.instants[pos], nil
}

// Stride returns every n-th index starting from the first one.
func (t *Timeline) Stride(n int) []int {
	if n < 1 {
		n = 1
	}
	out := make([]int, 0, (len(t.indices)+n-1)/n)
	for i := 0; i < len(t.indices); i += n {
		out = append(out, t.indices[i])
	}
	return out
}

// Timestep returns the physical time per step index, estimated from the
// first two records.
func (t *Timeline) Timestep() (float64, error) {
	if len(t.indices) < 2 {
		return 0, fmt.Errorf("%w: timestep needs two records, have %d", ErrTimeline, len(t.indices))
	}
	return (t.instants[1] - t.instants[0]) / float64(t.indices[1]-t.indices[0]), nil
}
