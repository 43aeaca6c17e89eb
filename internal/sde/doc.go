// Package sde defines the core primitives shared by the diagnostic
// tool: batched SDE systems, the calculus sense of their diffusion
// term, and the domain errors surfaced during integration.
//
//   - [System]: batched diagonal-noise SDE (dY = f dt + g dW)
//   - [Calculus]: Ito vs Stratonovich interpretation of g dW
//   - [Valid]: finite-value check used after every solver step
//
// States are (batch x dim) [gonum.org/v1/gonum/mat.Dense] matrices in
// float64 throughout; precision is never ambient configuration.
package sde
