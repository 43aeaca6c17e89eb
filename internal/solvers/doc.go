// Package solvers implements the fixed-step SDE integration schemes
// under test:
//
//   - [Euler]: Euler-Maruyama, Ito sense, strong order 0.5
//   - [Heun]: explicit trapezoidal, Stratonovich sense, strong order 1.0
//   - [Midpoint]: explicit midpoint, Stratonovich sense, strong order 1.0
//   - [Milstein]: derivative-free Milstein, Ito sense, strong order 1.0
//
// [Integrate] drives any stepper over a time grid against a shared
// [brownian.Interval], so different schemes integrate the very same
// noise realization and their errors are directly comparable.
package solvers
