// Package simdata reads the output directory written by the simulator.
package simdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ruancomelli/psin/internal/scene"
)

const (
	OutputFile    = "simulation.json"
	CollisionFile = "coefficient_of_restitution.txt"
)

// ErrFormat indicates simulator output that does not follow the expected
// layout.
var ErrFormat = errors.New("simdata: malformed simulator output")

// entities is kind -> name -> property -> time index -> value.
type entities map[string]map[string]map[string]map[string]json.RawMessage

type document struct {
	Settings   map[string]any     `json:"settings"`
	Time       map[string]float64 `json:"time"`
	Particles  entities           `json:"particles"`
	Boundaries entities           `json:"boundaries"`
}

// Load reads OutputFile from dir.
func Load(dir string) (*scene.Dataset, error) {
	path := filepath.Join(dir, OutputFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Decode parses a simulation document.
func Decode(r io.Reader) (*scene.Dataset, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	times := make(map[int]float64, len(doc.Time))
	for key, t := range doc.Time {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: time index %q is not an integer", ErrFormat, key)
		}
		times[idx] = t
	}
	tl, err := scene.NewTimeline(times)
	if err != nil {
		return nil, err
	}

	d := &scene.Dataset{Settings: doc.Settings, Timeline: tl}

	for kind, byName := range doc.Particles {
		for name, props := range byName {
			p := &scene.Particle{Entity: scene.Entity{Kind: kind, Name: name}}
			if err := decodeParticle(p, props); err != nil {
				return nil, err
			}
			d.Particles = append(d.Particles, p)
		}
	}
	for kind, byName := range doc.Boundaries {
		for name, props := range byName {
			b := &scene.Boundary{Entity: scene.Entity{Kind: kind, Name: name}}
			if err := decodeBoundary(b, props); err != nil {
				return nil, err
			}
			d.Boundaries = append(d.Boundaries, b)
		}
	}

	d.Sort()
	return d, nil
}

func decodeParticle(p *scene.Particle, props map[string]map[string]json.RawMessage) error {
	var err error
	for prop, history := range props {
		switch prop {
		case "Position":
			p.Position, err = vectors(p.Entity, prop, history)
		case "Radius":
			p.Radius, err = scalars(p.Entity, prop, history)
		case "Color":
			p.Color, err = colors(p.Entity, prop, history)
		default:
			err = decodeProperty(&p.Properties, p.Entity, prop, history)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeBoundary(b *scene.Boundary, props map[string]map[string]json.RawMessage) error {
	var err error
	for prop, history := range props {
		switch prop {
		case "NormalVersor":
			b.NormalVersor, err = vectors(b.Entity, prop, history)
		case "Origin":
			b.Origin, err = vectors(b.Entity, prop, history)
		case "Color":
			b.Color, err = colors(b.Entity, prop, history)
		default:
			err = decodeProperty(&b.Properties, b.Entity, prop, history)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeProperty stores a history of numbers as a scalar property and a
// history of arrays as a vector property. Anything else is malformed.
func decodeProperty(dst *scene.Properties, e scene.Entity, prop string, history map[string]json.RawMessage) error {
	if isArrayHistory(history) {
		v, err := vectors(e, prop, history)
		if err != nil {
			return err
		}
		if dst.Vectors == nil {
			dst.Vectors = make(map[string]scene.History[r3.Vec])
		}
		dst.Vectors[prop] = v
		return nil
	}

	s, err := scalars(e, prop, history)
	if err != nil {
		return err
	}
	if dst.Scalars == nil {
		dst.Scalars = make(map[string]scene.History[float64])
	}
	dst.Scalars[prop] = s
	return nil
}

// isArrayHistory reports whether any recorded value is a JSON array.
func isArrayHistory(history map[string]json.RawMessage) bool {
	for _, raw := range history {
		if b := bytes.TrimLeft(raw, " \t\r\n"); len(b) > 0 && b[0] == '[' {
			return true
		}
	}
	return false
}

var errIndex = fmt.Errorf("%w: time index is not an integer", ErrFormat)

func decodeHistory[T any](e scene.Entity, prop string, history map[string]json.RawMessage, parse func(json.RawMessage) (T, error)) (scene.History[T], error) {
	out := make(scene.History[T], len(history))
	for key, raw := range history {
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%s %q key %q: %w", e, prop, key, errIndex)
		}
		v, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s %q at index %d: %w", e, prop, idx, err)
		}
		out[idx] = v
	}
	return out, nil
}

func scalars(e scene.Entity, prop string, history map[string]json.RawMessage) (scene.History[float64], error) {
	return decodeHistory(e, prop, history, parseScalar)
}

func vectors(e scene.Entity, prop string, history map[string]json.RawMessage) (scene.History[r3.Vec], error) {
	return decodeHistory(e, prop, history, parseVector)
}

func colors(e scene.Entity, prop string, history map[string]json.RawMessage) (scene.History[scene.Color], error) {
	return decodeHistory(e, prop, history, parseColor)
}

func parseScalar(raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: expected a number: %v", ErrFormat, err)
	}
	return v, nil
}

// parseVector accepts two or three components; a missing z is zero.
func parseVector(raw json.RawMessage) (r3.Vec, error) {
	var xs []float64
	if err := json.Unmarshal(raw, &xs); err != nil {
		return r3.Vec{}, fmt.Errorf("%w: expected a vector: %v", ErrFormat, err)
	}
	if len(xs) < 2 {
		return r3.Vec{}, fmt.Errorf("%w: vector has %d components, need at least 2", ErrFormat, len(xs))
	}
	v := r3.Vec{X: xs[0], Y: xs[1]}
	if len(xs) > 2 {
		v.Z = xs[2]
	}
	return v, nil
}

// parseColor accepts the simulator's [[r, g, b], "name"] pair, a bare
// name or a bare RGB triple.
func parseColor(raw json.RawMessage) (scene.Color, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return scene.Color{Name: name}, nil
	}

	var xs []float64
	if err := json.Unmarshal(raw, &xs); err == nil {
		rgb, err := parseTriple(xs)
		return scene.Color{RGB: rgb}, err
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
		return scene.Color{}, fmt.Errorf("%w: expected [[r, g, b], name] color", ErrFormat)
	}
	if err := json.Unmarshal(pair[0], &xs); err != nil {
		return scene.Color{}, fmt.Errorf("%w: color triple: %v", ErrFormat, err)
	}
	rgb, err := parseTriple(xs)
	if err != nil {
		return scene.Color{}, err
	}
	c := scene.Color{RGB: rgb}
	if err := json.Unmarshal(pair[1], &c.Name); err != nil {
		return scene.Color{}, fmt.Errorf("%w: color name: %v", ErrFormat, err)
	}
	return c, nil
}

func parseTriple(xs []float64) ([3]float64, error) {
	if len(xs) != 3 {
		return [3]float64{}, fmt.Errorf("%w: color has %d components, need 3", ErrFormat, len(xs))
	}
	return [3]float64{xs[0], xs[1], xs[2]}, nil
}

// LoadCollisions reads CollisionFile from dir. A missing file yields no
// collisions.
func LoadCollisions(dir string) ([]scene.Collision, error) {
	data, err := os.ReadFile(filepath.Join(dir, CollisionFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var records []scene.Collision
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", CollisionFile, ErrFormat, err)
	}
	return records, nil
}
