package compute

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCPUMapSmall(t *testing.T) {
	c := NewCPUBackend()
	src := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	dst := mat.NewDense(2, 3, nil)
	c.Map(dst, src, func(v float64) float64 { return 2 * v })
	want := mat.NewDense(2, 3, []float64{2, 4, 6, 8, 10, 12})
	if !mat.Equal(dst, want) {
		t.Errorf("Map result:\n%v\nwant:\n%v", mat.Formatted(dst), mat.Formatted(want))
	}
}

// Large matrices take the chunked path; the result must match a serial
// evaluation exactly.
func TestCPUMapParallelMatchesSerial(t *testing.T) {
	const rows, cols = 500, 16 // above the parallel threshold
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i) * 0.01
	}
	src := mat.NewDense(rows, cols, data)

	c := NewCPUBackend()
	got := mat.NewDense(rows, cols, nil)
	c.Map(got, src, math.Sin)

	serial := &CPUBackend{workers: 1}
	want := mat.NewDense(rows, cols, nil)
	serial.Map(want, src, math.Sin)

	if !mat.Equal(got, want) {
		t.Error("parallel Map differs from serial Map")
	}
}

func TestCPUMap2(t *testing.T) {
	c := NewCPUBackend()
	a := mat.NewDense(1, 4, []float64{1, 2, 3, 4})
	b := mat.NewDense(1, 4, []float64{10, 20, 30, 40})
	dst := mat.NewDense(1, 4, nil)
	c.Map2(dst, a, b, func(x, y float64) float64 { return y - x })
	want := mat.NewDense(1, 4, []float64{9, 18, 27, 36})
	if !mat.Equal(dst, want) {
		t.Errorf("Map2 result:\n%v\nwant:\n%v", mat.Formatted(dst), mat.Formatted(want))
	}
}

func TestCPUMapAliasing(t *testing.T) {
	c := NewCPUBackend()
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	c.Map(m, m, func(v float64) float64 { return v + 1 })
	want := mat.NewDense(2, 2, []float64{2, 3, 4, 5})
	if !mat.Equal(m, want) {
		t.Errorf("in-place Map:\n%v\nwant:\n%v", mat.Formatted(m), mat.Formatted(want))
	}
}

func TestSelect(t *testing.T) {
	if got := Select(true).Name(); got != "cpu" {
		t.Errorf("Select(noGPU=true) = %q, want cpu", got)
	}
	// Without CUDA support compiled in, the GPU backend is never
	// available and selection falls through to the CPU.
	b := Select(false)
	if !b.Available() {
		t.Errorf("Select(false) returned unavailable backend %q", b.Name())
	}
}

func TestAll(t *testing.T) {
	backends := All()
	if len(backends) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(backends))
	}
	names := map[string]bool{}
	for _, b := range backends {
		names[b.Name()] = true
		b.Cleanup()
	}
	if !names["cpu"] {
		t.Errorf("All() = %v, missing cpu", names)
	}
}
