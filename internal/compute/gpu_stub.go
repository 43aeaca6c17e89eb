//go:build !gpu

package compute

import "gonum.org/v1/gonum/mat"

// GPUBackend is a stub in builds without the gpu tag. It reports
// itself unavailable and delegates to the CPU backend so callers never
// have to special-case its absence.
type GPUBackend struct {
	cpu *CPUBackend
}

func NewGPUBackend() *GPUBackend {
	return &GPUBackend{cpu: NewCPUBackend()}
}

func (g *GPUBackend) Name() string    { return "gpu (not available)" }
func (g *GPUBackend) Available() bool { return false }
func (g *GPUBackend) Cleanup()        {}

func (g *GPUBackend) Map(dst, src *mat.Dense, fn func(float64) float64) {
	g.cpu.Map(dst, src, fn)
}

func (g *GPUBackend) Map2(dst, a, b *mat.Dense, fn func(x, y float64) float64) {
	g.cpu.Map2(dst, a, b, fn)
}
