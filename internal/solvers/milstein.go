package solvers

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pkoval/sdelab/internal/sde"
)

// Milstein is the derivative-free Milstein scheme for Ito SDEs with
// diagonal noise, strong order 1.0. The diffusion derivative is
// replaced by a finite difference at an auxiliary Euler point, so the
// system only ever evaluates f and g.
type Milstein struct {
	f, g, gb, aux *mat.Dense
}

func NewMilstein() *Milstein {
	return &Milstein{}
}

func (m *Milstein) Name() string           { return "milstein" }
func (m *Milstein) Calculus() sde.Calculus { return sde.Ito }
func (m *Milstein) StrongOrder() float64   { return 1.0 }

func (m *Milstein) Step(sys sde.System, t, dt float64, y, dw, out *mat.Dense) {
	rows, cols := y.Dims()
	m.f = ensure(m.f, rows, cols)
	m.g = ensure(m.g, rows, cols)
	m.gb = ensure(m.gb, rows, cols)
	m.aux = ensure(m.aux, rows, cols)

	sys.Drift(t, y, m.f)
	sys.Diffusion(t, y, m.g)

	// Auxiliary point y + f*dt + g*sqrt(dt) for the finite difference.
	sqrtDt := math.Sqrt(dt)
	axpy(m.aux, y, dt, m.f)
	rAux := m.aux.RawMatrix()
	rg := m.g.RawMatrix()
	for i := 0; i < rAux.Rows; i++ {
		d := rAux.Data[i*rAux.Stride : i*rAux.Stride+rAux.Cols]
		pg := rg.Data[i*rg.Stride : i*rg.Stride+rg.Cols]
		for j := range d {
			d[j] += sqrtDt * pg[j]
		}
	}
	sys.Diffusion(t, m.aux, m.gb)

	rd := out.RawMatrix()
	ry := y.RawMatrix()
	rw := dw.RawMatrix()
	rf := m.f.RawMatrix()
	rgb := m.gb.RawMatrix()
	for i := 0; i < rd.Rows; i++ {
		d := rd.Data[i*rd.Stride : i*rd.Stride+rd.Cols]
		py := ry.Data[i*ry.Stride : i*ry.Stride+ry.Cols]
		pw := rw.Data[i*rw.Stride : i*rw.Stride+rw.Cols]
		pf := rf.Data[i*rf.Stride : i*rf.Stride+rf.Cols]
		pg := rg.Data[i*rg.Stride : i*rg.Stride+rg.Cols]
		pgb := rgb.Data[i*rgb.Stride : i*rgb.Stride+rgb.Cols]
		for j := range d {
			levy := 0.5 * (pgb[j] - pg[j]) / sqrtDt * (pw[j]*pw[j] - dt)
			d[j] = py[j] + dt*pf[j] + pg[j]*pw[j] + levy
		}
	}
}
