// Package problems provides benchmark SDE models with analytical
// solutions, used as ground truth by the diagnostics.
//
// Each model implements [sde.System] in a chosen calculus sense; the
// Ito and Stratonovich parameterizations of one experiment share their
// parameter via [sde.Configurable] so both describe the same process.
package problems
