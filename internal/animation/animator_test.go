package animation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ruancomelli/psin/internal/animation"
	"github.com/ruancomelli/psin/internal/geom"
	"github.com/ruancomelli/psin/internal/scene"
)

func ball(name string, positions scene.History[r3.Vec]) *scene.Particle {
	radii := scene.History[float64]{}
	colors := scene.History[scene.Color]{}
	for idx := range positions {
		radii[idx] = 1
		colors[idx] = scene.Color{Name: "r"}
	}
	return &scene.Particle{
		Entity:   scene.Entity{Kind: "SphericalParticle", Name: name},
		Position: positions,
		Radius:   radii,
		Color:    colors,
	}
}

func floor(normal r3.Vec) *scene.Boundary {
	b := &scene.Boundary{
		Entity:       scene.Entity{Kind: "FixedInfinitePlane", Name: "Floor"},
		NormalVersor: scene.History[r3.Vec]{},
		Origin:       scene.History[r3.Vec]{},
		Color:        scene.History[scene.Color]{},
	}
	for idx := 0; idx < 5; idx++ {
		b.NormalVersor[idx] = normal
		b.Origin[idx] = r3.Vec{}
		b.Color[idx] = scene.Color{Name: "k"}
	}
	return b
}

// newDataset records two balls over five steps. They sit near the origin at
// even steps 0 and 4 and far from the floor at step 2.
func newDataset() *scene.Dataset {
	tl, err := scene.NewTimeline(map[int]float64{0: 0, 1: 0.01234, 2: 0.02468, 3: 1.5, 4: 153.7})
	Expect(err).NotTo(HaveOccurred())

	a := ball("A", scene.History[r3.Vec]{
		0: {}, 1: {}, 2: {X: 10, Y: 10}, 3: {}, 4: {},
	})
	b := ball("B", scene.History[r3.Vec]{
		0: {X: 4, Y: 3}, 1: {X: 4, Y: 3}, 2: {X: 12, Y: 12}, 3: {X: 4, Y: 3}, 4: {X: 4, Y: 3},
	})
	return &scene.Dataset{
		Timeline:   tl,
		Particles:  []*scene.Particle{a, b},
		Boundaries: []*scene.Boundary{floor(r3.Vec{Y: 1})},
	}
}

var _ = Describe("Animator", func() {
	var data *scene.Dataset

	BeforeEach(func() {
		data = newDataset()
	})

	Describe("with default options", func() {
		var a *animation.Animator

		BeforeEach(func() {
			var err error
			a, err = animation.New(data, animation.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
		})

		It("samples every second time index", func() {
			Expect(a.Len()).To(Equal(3))
			Expect(a.Indices()).To(Equal([]int{0, 2, 4}))
		})

		It("starts uninitialized and ends done", func() {
			Expect(a.State()).To(Equal(animation.Uninitialized))

			frames, err := animation.Collect(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(HaveLen(a.Len()))
			Expect(a.State()).To(Equal(animation.Done))
			Expect(a.Next()).To(BeFalse())
		})

		It("labels frames with two significant figures", func() {
			frames, err := animation.Collect(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(frames[0].Label).To(Equal("0 s"))
			Expect(frames[1].Label).To(Equal("0.025 s"))
			Expect(frames[2].Label).To(Equal("150 s"))
		})

		It("squares the viewport around each frame's particles", func() {
			Expect(a.Next()).To(BeTrue())
			f := a.Frame()
			Expect(a.State()).To(Equal(animation.Ready))
			Expect(f.Number).To(Equal(0))
			Expect(f.TimeIndex).To(Equal(0))
			Expect(f.Viewport).To(Equal(geom.Viewport{XMin: -1, XMax: 5, YMin: -1.5, YMax: 4.5}))
			Expect(f.Circles).To(HaveLen(2))
			Expect(f.Circles[1].Center).To(Equal(r2.Vec{X: 4, Y: 3}))
		})

		It("draws the floor only where it crosses the viewport", func() {
			frames, err := animation.Collect(a)
			Expect(err).NotTo(HaveOccurred())

			Expect(frames[0].Lines).To(HaveLen(1))
			Expect(frames[0].Lines[0].Begin).To(Equal(r2.Vec{X: -1, Y: 0}))
			Expect(frames[0].Lines[0].End).To(Equal(r2.Vec{X: 5, Y: 0}))

			Expect(frames[1].Lines).To(BeEmpty())
			Expect(frames[2].Lines).To(HaveLen(1))
		})

		It("replays the same frames after Reset", func() {
			first, err := animation.Collect(a)
			Expect(err).NotTo(HaveOccurred())

			a.Reset()
			Expect(a.State()).To(Equal(animation.Uninitialized))
			second, err := animation.Collect(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("lays out a single frame without moving", func() {
			f, err := a.At(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.TimeIndex).To(Equal(4))
			Expect(a.State()).To(Equal(animation.Uninitialized))

			_, err = a.At(3)
			Expect(err).To(HaveOccurred())
		})
	})

	It("keeps one viewport for every frame in global mode", func() {
		opts := animation.DefaultOptions()
		opts.Viewport = animation.ViewportGlobal
		a, err := animation.New(data, opts)
		Expect(err).NotTo(HaveOccurred())

		frames, err := animation.Collect(a)
		Expect(err).NotTo(HaveOccurred())

		expected := geom.Viewport{XMin: -1, XMax: 13, YMin: -1, YMax: 13}
		for _, f := range frames {
			Expect(f.Viewport).To(Equal(expected))
			Expect(f.Lines).To(HaveLen(1))
		}
	})

	It("uses every index with a stride of one", func() {
		a, err := animation.New(data, animation.Options{Stride: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Len()).To(Equal(5))
	})

	It("rejects an unknown viewport mode", func() {
		_, err := animation.New(data, animation.Options{Viewport: "zoom"})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a dataset without particles", func() {
		data.Particles = nil
		_, err := animation.New(data, animation.DefaultOptions())
		Expect(err).To(MatchError(geom.ErrNoParticles))
	})

	It("stops with a frame error when a particle is missing a step", func() {
		delete(data.Particles[1].Position, 2)
		a, err := animation.New(data, animation.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Next()).To(BeTrue())
		Expect(a.Next()).To(BeFalse())
		Expect(a.State()).To(Equal(animation.Done))

		var fe *animation.FrameError
		Expect(a.Err()).To(BeAssignableToTypeOf(fe))
		fe = a.Err().(*animation.FrameError)
		Expect(fe.Frame).To(Equal(1))
		Expect(fe.TimeIndex).To(Equal(2))
		Expect(a.Err()).To(MatchError(scene.ErrMissingTimeIndex))
	})

	It("fails on a plane parallel to the ground", func() {
		data.Boundaries = []*scene.Boundary{floor(r3.Vec{Z: 1})}
		a, err := animation.New(data, animation.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Next()).To(BeFalse())
		Expect(a.Err()).To(MatchError(geom.ErrDegenerateTrace))
	})
})
