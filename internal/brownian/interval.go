package brownian

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultResolution is the fraction of the interval span below which
// the bridge tree stops subdividing. It must stay finer than the
// smallest step size queried against the interval: on a span of 5 the
// leaf width is 5*2^-13, below the finest rung of the 2^-1 .. 2^-8
// ladder, so consecutive ladder queries never land in one leaf.
const DefaultResolution = 1.0 / 8192.0

var (
	// ErrOutOfRange indicates a query time outside [t0, t1].
	ErrOutOfRange = errors.New("brownian: query time outside interval")

	// ErrShapeMismatch indicates a destination matrix of the wrong shape.
	ErrShapeMismatch = errors.New("brownian: destination shape mismatch")
)

// Interval is a batched Brownian motion over [t0, t1], queryable at
// arbitrary times. Values are generated by descending a dyadic
// Brownian-bridge tree whose nodes draw from seeds derived per node,
// so W(t) depends only on the seed and t, never on query order. No
// values are cached beyond the last query, so memory stays at a few
// state matrices regardless of how many times are visited.
//
// Increments between two queries closer together than the tree
// resolution are conditionally independent given the enclosing leaf;
// this is the approximation knob, in the same spirit as the space-time
// Levy-area approximation of higher-order Brownian terms.
//
// An Interval is not safe for concurrent use: queries share scratch
// buffers.
type Interval struct {
	t0, t1     float64
	rows, cols int
	seed       uint64
	res        float64

	wa, wb, wm *mat.Dense
	tmpA, tmpB *mat.Dense

	lastT  float64
	lastW  *mat.Dense
	cached bool
}

// Option configures an Interval.
type Option func(*Interval)

// WithResolution overrides the bridge-tree resolution, given as a
// fraction of the interval span.
func WithResolution(frac float64) Option {
	return func(bi *Interval) { bi.res = frac * (bi.t1 - bi.t0) }
}

// NewInterval creates a Brownian motion over [t0, t1] for a batch of
// rows paths in cols dimensions, pinned to W(t0) = 0.
func NewInterval(t0, t1 float64, rows, cols int, seed uint64, opts ...Option) (*Interval, error) {
	if t1 <= t0 {
		return nil, fmt.Errorf("brownian: need t1 > t0, got [%g, %g]", t0, t1)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("brownian: need positive shape, got %dx%d", rows, cols)
	}
	bi := &Interval{
		t0:    t0,
		t1:    t1,
		rows:  rows,
		cols:  cols,
		seed:  seed,
		res:   DefaultResolution * (t1 - t0),
		wa:    mat.NewDense(rows, cols, nil),
		wb:    mat.NewDense(rows, cols, nil),
		wm:    mat.NewDense(rows, cols, nil),
		tmpA:  mat.NewDense(rows, cols, nil),
		tmpB:  mat.NewDense(rows, cols, nil),
		lastW: mat.NewDense(rows, cols, nil),
	}
	for _, opt := range opts {
		opt(bi)
	}
	return bi, nil
}

// Shape returns the (batch, dim) shape of the motion.
func (bi *Interval) Shape() (rows, cols int) { return bi.rows, bi.cols }

// Span returns the time interval the motion is defined on.
func (bi *Interval) Span() (t0, t1 float64) { return bi.t0, bi.t1 }

// Value writes W(t) into dst.
func (bi *Interval) Value(t float64, dst *mat.Dense) error {
	if err := bi.checkDst(dst); err != nil {
		return err
	}
	const slack = 1e-12
	if t < bi.t0-slack || t > bi.t1+slack {
		return fmt.Errorf("%w: t=%g not in [%g, %g]", ErrOutOfRange, t, bi.t0, bi.t1)
	}
	t = math.Min(math.Max(t, bi.t0), bi.t1)

	if t == bi.t0 {
		dst.Zero()
		return nil
	}

	// Terminal value: W(t1) ~ N(0, t1-t0).
	bi.wa.Zero()
	fillNormal(bi.wb, math.Sqrt(bi.t1-bi.t0), mix(bi.seed^0x6c62272e07bb0142))
	if t == bi.t1 {
		dst.Copy(bi.wb)
		return nil
	}

	a, b := bi.t0, bi.t1
	depth, idx := uint64(1), uint64(0)
	for b-a > bi.res {
		m := 0.5 * (a + b)
		// Midpoint bridge: W(m) | W(a), W(b) ~ N((W(a)+W(b))/2, (b-a)/4).
		bridgeMid(bi.wm, bi.wa, bi.wb, math.Sqrt(0.25*(b-a)), bi.nodeSeed(depth, idx))
		if t <= m {
			b = m
			bi.wb.Copy(bi.wm)
			idx = 2 * idx
		} else {
			a = m
			bi.wa.Copy(bi.wm)
			idx = 2*idx + 1
		}
		depth++
	}

	switch {
	case t == a:
		dst.Copy(bi.wa)
	case t == b:
		dst.Copy(bi.wb)
	default:
		// Final bridge draw at the exact query time, seeded from t itself.
		frac := (t - a) / (b - a)
		sd := math.Sqrt((t - a) * (b - t) / (b - a))
		bridgeAt(dst, bi.wa, bi.wb, frac, sd, mix(bi.seed^mix(math.Float64bits(t))))
	}
	return nil
}

// Increment writes W(tb) - W(ta) into dst. Consecutive calls walking a
// grid (Increment(t0,t1), Increment(t1,t2), ...) reuse the previous
// endpoint value, so each step costs one tree descent.
func (bi *Interval) Increment(ta, tb float64, dst *mat.Dense) error {
	if err := bi.checkDst(dst); err != nil {
		return err
	}
	var left *mat.Dense
	if bi.cached && bi.lastT == ta {
		left = bi.lastW
	} else {
		if err := bi.Value(ta, bi.tmpA); err != nil {
			return err
		}
		left = bi.tmpA
	}
	if err := bi.Value(tb, bi.tmpB); err != nil {
		return err
	}
	dst.Sub(bi.tmpB, left)
	bi.lastW.Copy(bi.tmpB)
	bi.lastT = tb
	bi.cached = true
	return nil
}

// SpaceTimeAverage writes the space-time average
//
//	U = (1/h) * integral over [ta, tb] of (W(s) - W(ta)) ds,  h = tb - ta
//
// into dst, drawn from its conditional law N(dW/2, h/12) given the
// increment dW. It stands in for the exact Levy area in schemes that
// need one; the bundled diagonal-noise schemes get order 1.0 from the
// increment alone and do not consume it.
func (bi *Interval) SpaceTimeAverage(ta, tb float64, dst *mat.Dense) error {
	if err := bi.checkDst(dst); err != nil {
		return err
	}
	if tb <= ta {
		return fmt.Errorf("brownian: need tb > ta, got [%g, %g]", ta, tb)
	}
	if err := bi.Value(ta, bi.tmpA); err != nil {
		return err
	}
	if err := bi.Value(tb, bi.tmpB); err != nil {
		return err
	}
	h := tb - ta
	seed := mix(bi.seed ^ mix(math.Float64bits(ta)) ^ mix(math.Float64bits(tb)) ^ 0x2545f4914f6cdd1d)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	sd := math.Sqrt(h / 12)
	raw := dst.RawMatrix()
	ra := bi.tmpA.RawMatrix()
	rb := bi.tmpB.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		d := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		pa := ra.Data[i*ra.Stride : i*ra.Stride+ra.Cols]
		pb := rb.Data[i*rb.Stride : i*rb.Stride+rb.Cols]
		for j := range d {
			d[j] = 0.5*(pb[j]-pa[j]) + sd*normal.Rand()
		}
	}
	return nil
}

func (bi *Interval) checkDst(dst *mat.Dense) error {
	r, c := dst.Dims()
	if r != bi.rows || c != bi.cols {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrShapeMismatch, r, c, bi.rows, bi.cols)
	}
	return nil
}

func (bi *Interval) nodeSeed(depth, idx uint64) uint64 {
	return mix(mix(bi.seed^(depth*0x9e3779b97f4a7c15)) ^ idx)
}

// mix is the splitmix64 finalizer, used to derive independent seeds.
func mix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func fillNormal(dst *mat.Dense, sd float64, seed uint64) {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	raw := dst.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		d := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for j := range d {
			d[j] = sd * normal.Rand()
		}
	}
}

func bridgeMid(dst, wa, wb *mat.Dense, sd float64, seed uint64) {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	raw := dst.RawMatrix()
	ra := wa.RawMatrix()
	rb := wb.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		d := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		pa := ra.Data[i*ra.Stride : i*ra.Stride+ra.Cols]
		pb := rb.Data[i*rb.Stride : i*rb.Stride+rb.Cols]
		for j := range d {
			d[j] = 0.5*(pa[j]+pb[j]) + sd*normal.Rand()
		}
	}
}

func bridgeAt(dst, wa, wb *mat.Dense, frac, sd float64, seed uint64) {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	raw := dst.RawMatrix()
	ra := wa.RawMatrix()
	rb := wb.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		d := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		pa := ra.Data[i*ra.Stride : i*ra.Stride+ra.Cols]
		pb := rb.Data[i*rb.Stride : i*rb.Stride+rb.Cols]
		for j := range d {
			d[j] = pa[j] + frac*(pb[j]-pa[j]) + sd*normal.Rand()
		}
	}
}
