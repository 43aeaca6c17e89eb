package sde

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Calculus selects the sense in which the stochastic integral of a
// system's diffusion term is interpreted.
type Calculus int

const (
	Ito Calculus = iota
	Stratonovich
)

func (c Calculus) String() string {
	switch c {
	case Ito:
		return "ito"
	case Stratonovich:
		return "stratonovich"
	}
	return "unknown"
}

// System describes a batched SDE with diagonal noise,
//
//	dY = f(t, Y) dt + g(t, Y) dW
//
// where Y is a (batch x dim) matrix and g acts elementwise. Drift and
// Diffusion write into out, which has the same shape as y; out may
// alias y.
type System interface {
	Drift(t float64, y, out *mat.Dense)
	Diffusion(t float64, y, out *mat.Dense)
	Dim() int
	Calculus() Calculus
}

// Configurable exposes runtime-adjustable system parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Valid reports whether every entry of m is finite.
func Valid(m *mat.Dense) bool {
	raw := m.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Ones returns a rows x cols matrix with every entry set to one, the
// conventional initial condition for the diagnostic problems.
func Ones(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	raw := m.RawMatrix()
	for i := range raw.Data {
		raw.Data[i] = 1
	}
	return m
}
