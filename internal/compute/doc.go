// Package compute provides the compute-device abstraction for batch
// kernels.
//
// A [Backend] is picked once at program start from the --no-gpu flag
// and hardware availability, then threaded explicitly through every
// component that evaluates drift, diffusion, or the analytical
// solution over a batch:
//
//	backend := compute.Select(noGPU)
//	model := problems.NewSineCosine(d, sde.Ito, backend, src)
//
// The CPU backend splits rows across a worker pool for large batches.
// The GPU backend is a stub unless built with the gpu tag; without it,
// selection always falls through to the CPU.
package compute
