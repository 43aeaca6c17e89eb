package compute

import "gonum.org/v1/gonum/mat"

// Backend evaluates elementwise kernels over batched state matrices.
// Implementations decide where the work runs; callers hold a Backend
// chosen once at startup and thread it explicitly through every
// component that does batch math.
type Backend interface {
	Name() string
	Available() bool

	// Map applies fn to every entry of src, writing into dst.
	// dst may alias src; shapes must match.
	Map(dst, src *mat.Dense, fn func(float64) float64)

	// Map2 applies fn pairwise over a and b, writing into dst.
	// dst may alias a or b; shapes must match.
	Map2(dst, a, b *mat.Dense, fn func(x, y float64) float64)

	Cleanup()
}

// Select returns the backend for a run: the GPU backend when available
// and not vetoed, the CPU backend otherwise. The choice happens once;
// callers pass the result down rather than consulting a package global.
func Select(noGPU bool) Backend {
	if !noGPU {
		g := NewGPUBackend()
		if g.Available() {
			return g
		}
	}
	return NewCPUBackend()
}

// All returns every known backend, available or not.
func All() []Backend {
	return []Backend{NewGPUBackend(), NewCPUBackend()}
}
