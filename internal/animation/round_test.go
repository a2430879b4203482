package animation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ruancomelli/psin/internal/animation"
)

var _ = Describe("RoundToN", func() {
	DescribeTable("rounds to significant figures",
		func(x float64, n int, expected float64) {
			Expect(animation.RoundToN(x, n)).To(BeNumerically("~", expected, 1e-12))
		},
		Entry("small value", 0.01234, 2, 0.012),
		Entry("zero", 0.0, 2, 0.0),
		Entry("large value", 153.7, 2, 150.0),
		Entry("negative value", -0.0456, 1, -0.05),
		Entry("already short", 1.5, 2, 1.5),
		Entry("n below one", 87.0, 0, 90.0),
		Entry("half to even", 0.125, 2, 0.12),
	)

	It("keeps tiny values exact", func() {
		Expect(animation.RoundToN(5e-320, 2)).To(Equal(5e-320))
		Expect(animation.RoundToN(1e-305, 2)).To(Equal(1e-305))
		Expect(animation.RoundToN(1.234e-310, 2)).To(Equal(1.2e-310))
		Expect(animation.Label(5e-320, 2)).To(Equal("5e-320 s"))
	})

	It("formats labels with a seconds suffix", func() {
		Expect(animation.Label(0.01234, 2)).To(Equal("0.012 s"))
		Expect(animation.Label(153.7, 2)).To(Equal("150 s"))
		Expect(animation.Label(0, 2)).To(Equal("0 s"))
	})
})
