// Package trace provides the shared data model for Taylorgram analysis:
// sampled traces, Gaussian peak components, and linear baselines.
//
// A Trace is an immutable pair of parallel slices (time, signal) with a
// strictly increasing time grid. Components are parameterized by area,
// center and width; both the unnormalized kernel used by the nonlinear
// fitter and the normalized density form used as a linear basis are
// available.
//
// # Usage
//
// Build a model curve from fitted parameters:
//
//	grid := trace.Linspace(3, 8, 700)
//	base := trace.Baseline{Intercept: 1}
//	comp := trace.Component{Area: 0.75, Center: 6, Sigma: 0.55}
//	curve := trace.Model(grid, base, []trace.Component{comp})
package trace
