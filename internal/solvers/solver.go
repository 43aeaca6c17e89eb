package solvers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pkoval/sdelab/internal/brownian"
	"github.com/pkoval/sdelab/internal/sde"
)

// Stepper advances a batched SDE state by one step of size dt, given
// the Brownian increment dw over the step. Implementations keep
// scratch buffers and are not safe for concurrent use.
type Stepper interface {
	Name() string
	Calculus() sde.Calculus
	StrongOrder() float64
	Step(sys sde.System, t, dt float64, y, dw, out *mat.Dense)
}

// Integrate runs a fixed-step integration of sys from ts[0] to the
// last grid point, recording the state at every point of ts. Steps are
// clamped so the trajectory lands exactly on each grid point. The
// Brownian interval bm supplies every increment, so repeated calls
// with different steppers see the same noise realization.
//
// The returned slice holds one (batch x dim) matrix per grid point;
// the first entry is a copy of y0.
func Integrate(sys sde.System, st Stepper, y0 *mat.Dense, ts []float64, dt float64, bm *brownian.Interval) ([]*mat.Dense, error) {
	if len(ts) < 2 {
		return nil, sde.ErrBadTimeGrid
	}
	for i := 1; i < len(ts); i++ {
		if ts[i] <= ts[i-1] {
			return nil, sde.ErrBadTimeGrid
		}
	}
	if dt <= 0 {
		return nil, fmt.Errorf("solvers: need dt > 0, got %g", dt)
	}
	if st.Calculus() != sys.Calculus() {
		return nil, fmt.Errorf("%w: %s stepper on %s system",
			sde.ErrCalculusMismatch, st.Calculus(), sys.Calculus())
	}
	rows, cols := y0.Dims()
	if cols != sys.Dim() {
		return nil, fmt.Errorf("%w: state has %d columns, system dimension is %d",
			sde.ErrDimensionMismatch, cols, sys.Dim())
	}
	if br, bc := bm.Shape(); br != rows || bc != cols {
		return nil, fmt.Errorf("%w: state is %dx%d, brownian interval is %dx%d",
			sde.ErrDimensionMismatch, rows, cols, br, bc)
	}

	y := mat.DenseCopyOf(y0)
	next := mat.NewDense(rows, cols, nil)
	dw := mat.NewDense(rows, cols, nil)

	out := make([]*mat.Dense, 0, len(ts))
	out = append(out, mat.DenseCopyOf(y0))

	t := ts[0]
	step := 0
	for _, target := range ts[1:] {
		for t < target {
			// Clamp the step to land exactly on the grid point; tNext
			// must be bitwise-exact so consecutive Brownian queries
			// chain on the same path.
			tNext := t + dt
			if tNext >= target {
				tNext = target
			}
			if err := bm.Increment(t, tNext, dw); err != nil {
				return nil, err
			}
			st.Step(sys, t, tNext-t, y, dw, next)
			y, next = next, y
			t = tNext
			step++
			if !sde.Valid(y) {
				return nil, &sde.StepError{Step: step, Time: t, Wrapped: sde.ErrInvalidState}
			}
		}
		out = append(out, mat.DenseCopyOf(y))
	}
	return out, nil
}

// Grid returns n evenly spaced points from t0 to t1 inclusive.
func Grid(t0, t1 float64, n int) []float64 {
	ts := make([]float64, n)
	span := t1 - t0
	for i := range ts {
		ts[i] = t0 + span*float64(i)/float64(n-1)
	}
	ts[n-1] = t1
	return ts
}

// StepSizes returns the dyadic step-size ladder 2^-lo .. 2^-hi.
func StepSizes(lo, hi int) []float64 {
	dts := make([]float64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		dts = append(dts, math.Pow(2, -float64(i)))
	}
	return dts
}
