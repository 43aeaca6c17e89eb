// Package analysis measures solver error and estimates empirical
// convergence rates from it.
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MSE returns the mean squared difference between two equally shaped
// batch matrices as a plain float64 scalar, ready for regression.
func MSE(a, b *mat.Dense) (float64, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return 0, fmt.Errorf("analysis: shape mismatch %dx%d vs %dx%d", ar, ac, br, bc)
	}
	ra := a.RawMatrix()
	rb := b.RawMatrix()
	sum := 0.0
	for i := 0; i < ar; i++ {
		pa := ra.Data[i*ra.Stride : i*ra.Stride+ac]
		pb := rb.Data[i*rb.Stride : i*rb.Stride+ac]
		for j := range pa {
			d := pa[j] - pb[j]
			sum += d * d
		}
	}
	return sum / float64(ar*ac), nil
}

// OrderFit is the result of a strong-order regression.
type OrderFit struct {
	Order     float64 // slope: empirical strong convergence order
	Intercept float64
	R2        float64
}

// StrongOrder fits a line to (log dt, log MSE / 2) by least squares
// and reports the slope as the empirical strong order. The halving
// matches the textbook convention: strong order is stated for the
// root-mean-square error, and MSE is its square.
func StrongOrder(dts, mses []float64) (OrderFit, error) {
	if len(dts) != len(mses) {
		return OrderFit{}, fmt.Errorf("analysis: %d step sizes vs %d errors", len(dts), len(mses))
	}
	if len(dts) < 2 {
		return OrderFit{}, fmt.Errorf("analysis: need at least 2 points, got %d", len(dts))
	}
	xs := make([]float64, len(dts))
	ys := make([]float64, len(mses))
	for i := range dts {
		if dts[i] <= 0 {
			return OrderFit{}, fmt.Errorf("analysis: step size must be positive, got %g", dts[i])
		}
		if mses[i] <= 0 {
			return OrderFit{}, fmt.Errorf("analysis: MSE must be positive for a log fit, got %g", mses[i])
		}
		xs[i] = math.Log(dts[i])
		ys[i] = math.Log(mses[i]) / 2
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	return OrderFit{Order: beta, Intercept: alpha, R2: r2}, nil
}
