package solvers

import (
	"gonum.org/v1/gonum/mat"

	"github.com/pkoval/sdelab/internal/sde"
)

// Euler is the Euler-Maruyama scheme for Ito SDEs, strong order 0.5.
type Euler struct {
	f, g *mat.Dense
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string           { return "euler" }
func (e *Euler) Calculus() sde.Calculus { return sde.Ito }
func (e *Euler) StrongOrder() float64   { return 0.5 }

func (e *Euler) Step(sys sde.System, t, dt float64, y, dw, out *mat.Dense) {
	rows, cols := y.Dims()
	e.f = ensure(e.f, rows, cols)
	e.g = ensure(e.g, rows, cols)

	sys.Drift(t, y, e.f)
	sys.Diffusion(t, y, e.g)

	axpy(out, y, dt, e.f)
	mulAdd(out, out, e.g, dw)
}

// ensure returns m resized to rows x cols, reusing the allocation when
// the shape already matches.
func ensure(m *mat.Dense, rows, cols int) *mat.Dense {
	if m != nil {
		if r, c := m.Dims(); r == rows && c == cols {
			return m
		}
	}
	return mat.NewDense(rows, cols, nil)
}

// axpy writes y + a*x into dst.
func axpy(dst, y *mat.Dense, a float64, x *mat.Dense) {
	rd := dst.RawMatrix()
	ry := y.RawMatrix()
	rx := x.RawMatrix()
	for i := 0; i < rd.Rows; i++ {
		d := rd.Data[i*rd.Stride : i*rd.Stride+rd.Cols]
		py := ry.Data[i*ry.Stride : i*ry.Stride+ry.Cols]
		px := rx.Data[i*rx.Stride : i*rx.Stride+rx.Cols]
		for j := range d {
			d[j] = py[j] + a*px[j]
		}
	}
}

// mulAdd writes y + a.*b (elementwise product) into dst.
func mulAdd(dst, y, a, b *mat.Dense) {
	rd := dst.RawMatrix()
	ry := y.RawMatrix()
	ra := a.RawMatrix()
	rb := b.RawMatrix()
	for i := 0; i < rd.Rows; i++ {
		d := rd.Data[i*rd.Stride : i*rd.Stride+rd.Cols]
		py := ry.Data[i*ry.Stride : i*ry.Stride+ry.Cols]
		pa := ra.Data[i*ra.Stride : i*ra.Stride+ra.Cols]
		pb := rb.Data[i*rb.Stride : i*rb.Stride+rb.Cols]
		for j := range d {
			d[j] = py[j] + pa[j]*pb[j]
		}
	}
}
