package brownian_test

import (
	"math"

	"gonum.org/v1/gonum/mat"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pkoval/sdelab/internal/brownian"
)

var _ = Describe("Interval", func() {
	const (
		t0   = 0.0
		t1   = 5.0
		rows = 8
		cols = 3
		seed = uint64(42)
	)

	var (
		bi  *brownian.Interval
		dst *mat.Dense
	)

	BeforeEach(func() {
		var err error
		bi, err = brownian.NewInterval(t0, t1, rows, cols, seed)
		Expect(err).NotTo(HaveOccurred())
		dst = mat.NewDense(rows, cols, nil)
	})

	It("rejects a degenerate time span", func() {
		_, err := brownian.NewInterval(3, 3, rows, cols, seed)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a non-positive shape", func() {
		_, err := brownian.NewInterval(t0, t1, 0, cols, seed)
		Expect(err).To(HaveOccurred())
	})

	It("is pinned to zero at the left endpoint", func() {
		Expect(bi.Value(t0, dst)).To(Succeed())
		Expect(mat.Norm(dst, 1)).To(BeZero())
	})

	It("reports its shape and span", func() {
		r, c := bi.Shape()
		Expect(r).To(Equal(rows))
		Expect(c).To(Equal(cols))
		a, b := bi.Span()
		Expect(a).To(Equal(t0))
		Expect(b).To(Equal(t1))
	})

	It("rejects queries outside the span", func() {
		Expect(bi.Value(t1+1, dst)).To(MatchError(brownian.ErrOutOfRange))
		Expect(bi.Value(t0-1, dst)).To(MatchError(brownian.ErrOutOfRange))
	})

	It("rejects a destination of the wrong shape", func() {
		bad := mat.NewDense(rows+1, cols, nil)
		Expect(bi.Value(1.0, bad)).To(MatchError(brownian.ErrShapeMismatch))
		Expect(bi.Increment(0, 1, bad)).To(MatchError(brownian.ErrShapeMismatch))
		Expect(bi.SpaceTimeAverage(0, 1, bad)).To(MatchError(brownian.ErrShapeMismatch))
	})

	It("is a pure function of seed and time", func() {
		other, err := brownian.NewInterval(t0, t1, rows, cols, seed)
		Expect(err).NotTo(HaveOccurred())
		got := mat.NewDense(rows, cols, nil)
		for _, t := range []float64{0.3, 1.0, 2.5, 4.9, t1} {
			Expect(bi.Value(t, dst)).To(Succeed())
			Expect(other.Value(t, got)).To(Succeed())
			Expect(mat.Equal(dst, got)).To(BeTrue(), "W(%g) differs between instances", t)
		}
	})

	It("does not depend on query order", func() {
		Expect(bi.Value(1.7, dst)).To(Succeed())
		direct := mat.DenseCopyOf(dst)

		// Visit a scattered set of times first, then ask again.
		for _, t := range []float64{4.2, 0.1, 3.3, t1, 2.0} {
			Expect(bi.Value(t, dst)).To(Succeed())
		}
		Expect(bi.Value(1.7, dst)).To(Succeed())
		Expect(mat.Equal(dst, direct)).To(BeTrue())
	})

	It("produces different paths for different seeds", func() {
		other, err := brownian.NewInterval(t0, t1, rows, cols, seed+1)
		Expect(err).NotTo(HaveOccurred())
		got := mat.NewDense(rows, cols, nil)
		Expect(bi.Value(2.5, dst)).To(Succeed())
		Expect(other.Value(2.5, got)).To(Succeed())
		Expect(mat.Equal(dst, got)).To(BeFalse())
	})

	It("chains increments consistently with point values", func() {
		inc := mat.NewDense(rows, cols, nil)
		sum := mat.NewDense(rows, cols, nil)
		grid := []float64{0.0, 0.5, 1.25, 2.0, 3.75, t1}
		for i := 1; i < len(grid); i++ {
			Expect(bi.Increment(grid[i-1], grid[i], inc)).To(Succeed())
			sum.Add(sum, inc)
		}
		Expect(bi.Value(t1, dst)).To(Succeed())
		var diff mat.Dense
		diff.Sub(sum, dst)
		Expect(mat.Norm(&diff, 1)).To(BeNumerically("<", 1e-10))
	})

	It("draws a deterministic space-time average", func() {
		u1 := mat.NewDense(rows, cols, nil)
		u2 := mat.NewDense(rows, cols, nil)
		Expect(bi.SpaceTimeAverage(1.0, 1.5, u1)).To(Succeed())
		Expect(bi.SpaceTimeAverage(1.0, 1.5, u2)).To(Succeed())
		Expect(mat.Equal(u1, u2)).To(BeTrue())
		Expect(bi.SpaceTimeAverage(1.5, 1.0, u1)).To(HaveOccurred())
	})

	It("subdivides below the finest ladder step on the widest span", func() {
		// Queries one finest-ladder step apart must hit distinct
		// leaves, or their increments lose bridge conditioning.
		leaf := brownian.DefaultResolution * (t1 - t0)
		Expect(leaf).To(BeNumerically("<", math.Pow(2, -8)))
	})

	It("matches the Brownian scaling of the terminal value", func() {
		big, err := brownian.NewInterval(0, 4, 20000, 1, seed)
		Expect(err).NotTo(HaveOccurred())
		w := mat.NewDense(20000, 1, nil)
		Expect(big.Value(4, w)).To(Succeed())

		var mean, second float64
		for i := 0; i < 20000; i++ {
			v := w.At(i, 0)
			mean += v
			second += v * v
		}
		mean /= 20000
		variance := second/20000 - mean*mean
		Expect(mean).To(BeNumerically("~", 0, 0.1))
		Expect(variance).To(BeNumerically("~", 4.0, 0.4))
	})
})
