package animation_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ruancomelli/psin/internal/animation"
	"github.com/ruancomelli/psin/internal/scene"
)

var _ = Describe("ForEach", func() {
	var a *animation.Animator

	BeforeEach(func() {
		var err error
		opts := animation.DefaultOptions()
		opts.Stride = 1
		a, err = animation.New(newDataset(), opts)
		Expect(err).NotTo(HaveOccurred())
	})

	It("lays out the same frames as sequential iteration", func() {
		var (
			mu  sync.Mutex
			got []animation.Frame
		)
		err := animation.ForEach(context.Background(), a, 3, func(f animation.Frame) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, f)
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		sort.Slice(got, func(i, j int) bool { return got[i].Number < got[j].Number })

		want, err := animation.Collect(a)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("leaves the iterator untouched", func() {
		Expect(animation.ForEach(context.Background(), a, 2, func(animation.Frame) error { return nil })).To(Succeed())
		Expect(a.State()).To(Equal(animation.Uninitialized))
	})

	It("returns the error of the first failing frame", func() {
		stop := errors.New("stop")
		err := animation.ForEach(context.Background(), a, 5, func(f animation.Frame) error {
			if f.Number >= 3 {
				return stop
			}
			return nil
		})
		Expect(err).To(MatchError(stop))
	})

	It("reports missing data with the frame it belongs to", func() {
		data := newDataset()
		delete(data.Particles[0].Position, 2)
		b, err := animation.New(data, animation.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		err = animation.ForEach(context.Background(), b, 4, func(animation.Frame) error { return nil })
		var fe *animation.FrameError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.TimeIndex).To(Equal(2))
		Expect(err).To(MatchError(scene.ErrMissingTimeIndex))
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := animation.ForEach(ctx, a, 2, func(animation.Frame) error { return nil })
		Expect(err).To(MatchError(context.Canceled))
	})
})
