// Package brownian provides the shared randomness source for solver
// comparisons: a batched Brownian motion over a fixed interval that
// every solver and the analytical reference query for the same
// increments, so methods are compared on identical noise realizations.
//
// Determinism is structural rather than sequential: each bridge draw
// uses a seed derived from the interval seed and the position in the
// dyadic tree, so W(t) is a pure function of (seed, t). Re-running an
// experiment with the same seed reproduces the path exactly, and the
// order in which solvers query the path is irrelevant.
package brownian
