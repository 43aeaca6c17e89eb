package solvers

import (
	"gonum.org/v1/gonum/mat"

	"github.com/pkoval/sdelab/internal/sde"
)

// Heun is the stochastic Heun (explicit trapezoidal) scheme for
// Stratonovich SDEs, strong order 1.0 for diagonal noise.
type Heun struct {
	f0, g0, f1, g1, pred *mat.Dense
}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Name() string           { return "heun" }
func (h *Heun) Calculus() sde.Calculus { return sde.Stratonovich }
func (h *Heun) StrongOrder() float64   { return 1.0 }

func (h *Heun) Step(sys sde.System, t, dt float64, y, dw, out *mat.Dense) {
	rows, cols := y.Dims()
	h.f0 = ensure(h.f0, rows, cols)
	h.g0 = ensure(h.g0, rows, cols)
	h.f1 = ensure(h.f1, rows, cols)
	h.g1 = ensure(h.g1, rows, cols)
	h.pred = ensure(h.pred, rows, cols)

	sys.Drift(t, y, h.f0)
	sys.Diffusion(t, y, h.g0)

	// Predictor: full Euler step.
	axpy(h.pred, y, dt, h.f0)
	mulAdd(h.pred, h.pred, h.g0, dw)

	sys.Drift(t+dt, h.pred, h.f1)
	sys.Diffusion(t+dt, h.pred, h.g1)

	// Corrector: average slopes at both ends.
	rd := out.RawMatrix()
	ry := y.RawMatrix()
	rw := dw.RawMatrix()
	rf0, rg0 := h.f0.RawMatrix(), h.g0.RawMatrix()
	rf1, rg1 := h.f1.RawMatrix(), h.g1.RawMatrix()
	for i := 0; i < rd.Rows; i++ {
		d := rd.Data[i*rd.Stride : i*rd.Stride+rd.Cols]
		py := ry.Data[i*ry.Stride : i*ry.Stride+ry.Cols]
		pw := rw.Data[i*rw.Stride : i*rw.Stride+rw.Cols]
		pf0 := rf0.Data[i*rf0.Stride : i*rf0.Stride+rf0.Cols]
		pg0 := rg0.Data[i*rg0.Stride : i*rg0.Stride+rg0.Cols]
		pf1 := rf1.Data[i*rf1.Stride : i*rf1.Stride+rf1.Cols]
		pg1 := rg1.Data[i*rg1.Stride : i*rg1.Stride+rg1.Cols]
		for j := range d {
			d[j] = py[j] + 0.5*dt*(pf0[j]+pf1[j]) + 0.5*(pg0[j]+pg1[j])*pw[j]
		}
	}
}
