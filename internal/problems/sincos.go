package problems

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pkoval/sdelab/internal/brownian"
	"github.com/pkoval/sdelab/internal/compute"
	"github.com/pkoval/sdelab/internal/sde"
)

// SineCosine is a diagonal-noise benchmark SDE with a closed-form
// solution. In the Ito sense,
//
//	dY = -p^2 sin(Y) cos^3(Y) dt + p cos^2(Y) dW
//
// and in the Stratonovich sense the corrected drift vanishes, giving
// the exact pathwise solution
//
//	Y(t) = atan(p W(t) + tan(Y0))
//
// applied elementwise. The parameter p is drawn once per experiment as
// sigmoid of a standard normal; the Ito and Stratonovich instances of
// one experiment must share it for their trajectories to be
// comparable.
type SineCosine struct {
	d        int
	calculus sde.Calculus
	p        float64
	backend  compute.Backend
}

// NewSineCosine builds a d-dimensional instance in the given calculus
// sense, drawing p from src.
func NewSineCosine(d int, calculus sde.Calculus, backend compute.Backend, src rand.Source) *SineCosine {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	return &SineCosine{
		d:        d,
		calculus: calculus,
		p:        sigmoid(normal.Rand()),
		backend:  backend,
	}
}

func (s *SineCosine) Dim() int               { return s.d }
func (s *SineCosine) Calculus() sde.Calculus { return s.calculus }

func (s *SineCosine) GetParams() map[string]float64 {
	return map[string]float64{"p": s.p}
}

func (s *SineCosine) SetParam(name string, value float64) error {
	if name != "p" {
		return fmt.Errorf("problems: unknown param: %s", name)
	}
	s.p = value
	return nil
}

func (s *SineCosine) Drift(t float64, y, out *mat.Dense) {
	p2 := s.p * s.p
	switch s.calculus {
	case sde.Ito:
		s.backend.Map(out, y, func(v float64) float64 {
			c := math.Cos(v)
			return -p2 * math.Sin(v) * c * c * c
		})
	default:
		// Stratonovich-corrected drift: the Ito drift plus the
		// correction p^2 sin cos^3, computed as written so the
		// cancellation is the model's property, not a shortcut.
		s.backend.Map(out, y, func(v float64) float64 {
			c := math.Cos(v)
			f := -p2 * math.Sin(v) * c * c * c
			return f + p2*math.Sin(v)*c*c*c
		})
	}
}

func (s *SineCosine) Diffusion(t float64, y, out *mat.Dense) {
	p := s.p
	s.backend.Map(out, y, func(v float64) float64 {
		c := math.Cos(v)
		return p * c * c
	})
}

// AnalyticalValue writes the exact solution at time t for initial
// state y0 into dst, using w = W(t) from the shared Brownian interval.
func (s *SineCosine) AnalyticalValue(y0, w, dst *mat.Dense) {
	p := s.p
	s.backend.Map2(dst, w, y0, func(wv, y0v float64) float64 {
		return math.Atan(p*wv + math.Tan(y0v))
	})
}

// AnalyticalSample evaluates the exact solution on the whole grid ts
// against the same Brownian interval the solvers consume.
func (s *SineCosine) AnalyticalSample(y0 *mat.Dense, ts []float64, bm *brownian.Interval) ([]*mat.Dense, error) {
	rows, cols := y0.Dims()
	w := mat.NewDense(rows, cols, nil)
	out := make([]*mat.Dense, 0, len(ts))
	for _, t := range ts {
		if err := bm.Value(t, w); err != nil {
			return nil, err
		}
		y := mat.NewDense(rows, cols, nil)
		s.AnalyticalValue(y0, w, y)
		out = append(out, y)
	}
	return out, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
