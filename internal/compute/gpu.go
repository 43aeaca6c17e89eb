//go:build gpu

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -lcudart
#include <cuda_runtime.h>
*/
import "C"

import "gonum.org/v1/gonum/mat"

// GPUBackend probes for a CUDA device in builds with the gpu tag. The
// elementwise kernels arrive as Go closures, which cannot cross the
// device boundary, so Map and Map2 run on the host until dedicated
// device kernels exist for the drift, diffusion, and solution forms.
type GPUBackend struct {
	cpu        *CPUBackend
	available  bool
	deviceName string
}

func NewGPUBackend() *GPUBackend {
	g := &GPUBackend{cpu: NewCPUBackend()}
	var count C.int
	if C.cudaGetDeviceCount(&count) != C.cudaSuccess || count == 0 {
		return g
	}
	var prop C.struct_cudaDeviceProp
	if C.cudaGetDeviceProperties(&prop, 0) == C.cudaSuccess {
		g.deviceName = C.GoString(&prop.name[0])
	}
	g.available = true
	return g
}

func (g *GPUBackend) Name() string {
	if g.available {
		return "gpu (" + g.deviceName + ")"
	}
	return "gpu (not available)"
}

func (g *GPUBackend) Available() bool { return g.available }

func (g *GPUBackend) Cleanup() {
	if g.available {
		C.cudaDeviceReset()
	}
}

func (g *GPUBackend) Map(dst, src *mat.Dense, fn func(float64) float64) {
	g.cpu.Map(dst, src, fn)
}

func (g *GPUBackend) Map2(dst, a, b *mat.Dense, fn func(x, y float64) float64) {
	g.cpu.Map2(dst, a, b, fn)
}
