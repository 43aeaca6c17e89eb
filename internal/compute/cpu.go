package compute

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// parallelThreshold is the element count below which mapping stays
// serial; tiny batches are not worth the goroutine fan-out.
const parallelThreshold = 4096

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{workers: runtime.NumCPU()}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Map(dst, src *mat.Dense, fn func(float64) float64) {
	rows, cols := src.Dims()
	rd := dst.RawMatrix()
	rs := src.RawMatrix()

	apply := func(start, end int) {
		for i := start; i < end; i++ {
			d := rd.Data[i*rd.Stride : i*rd.Stride+cols]
			s := rs.Data[i*rs.Stride : i*rs.Stride+cols]
			for j := range d {
				d[j] = fn(s[j])
			}
		}
	}

	if rows*cols < parallelThreshold || c.workers < 2 {
		apply(0, rows)
		return
	}
	c.chunked(rows, apply)
}

func (c *CPUBackend) Map2(dst, a, b *mat.Dense, fn func(x, y float64) float64) {
	rows, cols := a.Dims()
	rd := dst.RawMatrix()
	ra := a.RawMatrix()
	rb := b.RawMatrix()

	apply := func(start, end int) {
		for i := start; i < end; i++ {
			d := rd.Data[i*rd.Stride : i*rd.Stride+cols]
			pa := ra.Data[i*ra.Stride : i*ra.Stride+cols]
			pb := rb.Data[i*rb.Stride : i*rb.Stride+cols]
			for j := range d {
				d[j] = fn(pa[j], pb[j])
			}
		}
	}

	if rows*cols < parallelThreshold || c.workers < 2 {
		apply(0, rows)
		return
	}
	c.chunked(rows, apply)
}

func (c *CPUBackend) chunked(rows int, apply func(start, end int)) {
	var wg sync.WaitGroup
	chunk := (rows + c.workers - 1) / c.workers
	for w := 0; w < c.workers; w++ {
		start := w * chunk
		if start >= rows {
			break
		}
		end := start + chunk
		if end > rows {
			end = rows
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			apply(s, e)
		}(start, end)
	}
	wg.Wait()
}
