package animation

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ruancomelli/psin/internal/geom"
	"github.com/ruancomelli/psin/internal/scene"
)

// State is the position of an Animator in its frame sequence.
type State int

const (
	Uninitialized State = iota
	Ready
	Done
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ViewportMode selects how frame limits are chosen.
type ViewportMode string

const (
	// ViewportPerFrame squares the bounding box of each frame's particles.
	ViewportPerFrame ViewportMode = "frame"
	// ViewportGlobal squares the bounding box of every sampled frame, so the
	// camera never moves.
	ViewportGlobal ViewportMode = "global"
)

const (
	DefaultStride             = 2
	DefaultSignificantFigures = 2
)

type Options struct {
	Stride             int
	SignificantFigures int
	Viewport           ViewportMode
}

func DefaultOptions() Options {
	return Options{
		Stride:             DefaultStride,
		SignificantFigures: DefaultSignificantFigures,
		Viewport:           ViewportPerFrame,
	}
}

// ErrNoDataset indicates an Animator built without a dataset or timeline.
var ErrNoDataset = errors.New("animation: dataset has no timeline")

// Circle is a particle as drawn in one frame.
type Circle struct {
	Name   string
	Center r2.Vec
	Radius float64
	Color  color.RGBA
}

// Line is the visible trace of a plane boundary in one frame.
type Line struct {
	Name string
	geom.Segment
	Color color.RGBA
}

// Frame is everything a writer needs to draw one animation step.
type Frame struct {
	Number    int
	TimeIndex int
	Time      float64
	Label     string
	Viewport  geom.Viewport
	Circles   []Circle
	Lines     []Line
}

// Animator walks the sampled time indices of a dataset and lays out one
// Frame per index. Use it like a bufio.Scanner:
//
//	a, _ := animation.New(data, animation.DefaultOptions())
//	for a.Next() {
//		draw(a.Frame())
//	}
//	if err := a.Err(); err != nil { ... }
//
// Animator is not safe for concurrent use.
type Animator struct {
	data    *scene.Dataset
	opts    Options
	indices []int
	global  geom.Viewport

	state State
	pos   int
	frame Frame
	err   error
}

// New samples every opts.Stride-th time index of data.
func New(data *scene.Dataset, opts Options) (*Animator, error) {
	if data == nil || data.Timeline == nil {
		return nil, ErrNoDataset
	}
	if len(data.Particles) == 0 {
		return nil, geom.ErrNoParticles
	}
	if opts.Stride < 1 {
		opts.Stride = DefaultStride
	}
	if opts.SignificantFigures < 1 {
		opts.SignificantFigures = DefaultSignificantFigures
	}
	if opts.Viewport == "" {
		opts.Viewport = ViewportPerFrame
	}

	a := &Animator{
		data:    data,
		opts:    opts,
		indices: data.Timeline.Stride(opts.Stride),
		pos:     -1,
	}

	switch opts.Viewport {
	case ViewportPerFrame:
	case ViewportGlobal:
		vp, err := a.globalViewport()
		if err != nil {
			return nil, err
		}
		a.global = vp
	default:
		return nil, fmt.Errorf("animation: unknown viewport mode %q", opts.Viewport)
	}
	return a, nil
}

func (a *Animator) globalViewport() (geom.Viewport, error) {
	var union geom.Viewport
	for n, idx := range a.indices {
		disks, err := a.data.Disks(idx)
		if err != nil {
			return geom.Viewport{}, &FrameError{Frame: n, TimeIndex: idx, Wrapped: err}
		}
		box, err := geom.BoundingBox(disks)
		if err != nil {
			return geom.Viewport{}, &FrameError{Frame: n, TimeIndex: idx, Wrapped: err}
		}
		if n == 0 {
			union = box
		} else {
			union = union.Union(box)
		}
	}
	return union.Square(), nil
}

// Len returns the number of frames.
func (a *Animator) Len() int { return len(a.indices) }

// Indices returns the sampled time indices, one per frame.
func (a *Animator) Indices() []int {
	out := make([]int, len(a.indices))
	copy(out, a.indices)
	return out
}

func (a *Animator) State() State { return a.state }

// Next advances to the next frame. It returns false once every frame was
// produced or a frame failed; Err tells the two apart.
func (a *Animator) Next() bool {
	if a.state == Done {
		return false
	}
	next := a.pos + 1
	if next >= len(a.indices) {
		a.state = Done
		return false
	}

	f, err := a.At(next)
	if err != nil {
		a.err = err
		a.state = Done
		return false
	}
	a.pos, a.frame, a.state = next, f, Ready
	return true
}

// Frame returns the frame produced by the last successful Next.
func (a *Animator) Frame() Frame { return a.frame }

// Err returns the error that stopped iteration, if any.
func (a *Animator) Err() error { return a.err }

// Reset rewinds to the Uninitialized state.
func (a *Animator) Reset() {
	a.state, a.pos, a.frame, a.err = Uninitialized, -1, Frame{}, nil
}

// At lays out frame n without moving the iterator.
func (a *Animator) At(n int) (Frame, error) {
	if n < 0 || n >= len(a.indices) {
		return Frame{}, fmt.Errorf("animation: frame %d out of range [0, %d)", n, len(a.indices))
	}
	idx := a.indices[n]
	f, err := a.layout(n, idx)
	if err != nil {
		return Frame{}, &FrameError{Frame: n, TimeIndex: idx, Wrapped: err}
	}
	return f, nil
}

func (a *Animator) layout(n, idx int) (Frame, error) {
	t, err := a.data.Timeline.Instant(idx)
	if err != nil {
		return Frame{}, err
	}

	f := Frame{
		Number:    n,
		TimeIndex: idx,
		Time:      t,
		Label:     Label(t, a.opts.SignificantFigures),
		Circles:   make([]Circle, 0, len(a.data.Particles)),
	}

	disks := make([]geom.Disk, 0, len(a.data.Particles))
	for _, p := range a.data.Particles {
		s, err := p.At(idx)
		if err != nil {
			return Frame{}, err
		}
		d := s.Disk()
		disks = append(disks, d)
		f.Circles = append(f.Circles, Circle{Name: p.Name, Center: d.Center, Radius: d.Radius, Color: s.Color})
	}

	if a.opts.Viewport == ViewportGlobal {
		f.Viewport = a.global
	} else {
		f.Viewport, err = geom.SquareViewport(disks)
		if err != nil {
			return Frame{}, err
		}
	}

	// Planes are infinite, so their visible part follows the viewport.
	for _, b := range a.data.Planes() {
		s, err := b.At(idx)
		if err != nil {
			return Frame{}, err
		}
		seg, ok, err := geom.PlaneSegment(s.Normal, s.Origin, f.Viewport)
		if err != nil {
			return Frame{}, fmt.Errorf("%s: %w", b, err)
		}
		if ok {
			f.Lines = append(f.Lines, Line{Name: b.Name, Segment: seg, Color: s.Color})
		}
	}
	return f, nil
}

// Collect drains a into a slice.
func Collect(a *Animator) ([]Frame, error) {
	frames := make([]Frame, 0, a.Len())
	for a.Next() {
		frames = append(frames, a.Frame())
	}
	return frames, a.Err()
}

// FrameError wraps an error with the frame it happened in.
type FrameError struct {
	Frame     int
	TimeIndex int
	Wrapped   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (time index %d): %v", e.Frame, e.TimeIndex, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
