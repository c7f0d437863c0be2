// Package fit fits sum-of-Gaussians-plus-linear-baseline models to
// sampled traces and reports fitted components, baseline coefficients and
// the residual sum of squares.
//
// Two policies are provided. Curve is a bounded nonlinear least-squares
// fit of k independent Gaussians, suitable when per-component initial
// guesses are available. SharedCenter handles the overlapping-peak case
// where two components share one center: it scans a small grid over the
// nonlinear parameters (center and the two widths) and solves the
// remaining four coefficients exactly per grid cell, trading continuous
// precision for robustness and determinism.
//
// # Usage
//
//	seed, _ := moment.Estimate(tr.Time, residual, moment.WithVarianceFloor(moment.WideSeedVarianceFloor))
//	res, err := fit.SharedCenter(tr, fit.GridFromSeed(seed))
//	if err != nil {
//	    // handle fit.ErrGridConstraint etc.
//	}
//	fmt.Println(res.Components, res.RSS)
package fit
