// Package baseline estimates a linear signal baseline from samples in
// designated peak-free regions, typically near both ends of the fit
// window.
package baseline

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"github.com/mila-maya/algo-tda/trace"
)

// ErrDegenerate is returned when fewer than two samples are available for
// the baseline regression.
var ErrDegenerate = errors.New("baseline: fewer than two samples selected for regression")

// Mask selects samples assumed to carry no peak signal.
type Mask func(t float64) bool

// Edges returns a mask selecting samples at or before lo and at or after hi.
func Edges(lo, hi float64) Mask {
	return func(t float64) bool {
		return t <= lo || t >= hi
	}
}

// Whole returns a mask selecting every sample.
func Whole() Mask {
	return func(float64) bool {
		return true
	}
}

// Estimate fits a degree-1 polynomial to the masked samples by ordinary
// least squares and evaluates it over the full time grid. The returned
// Baseline uses reference time zero, so intercept and slope are the raw
// polynomial coefficients.
func Estimate(tr trace.Trace, mask Mask) (trace.Baseline, []float64, error) {
	if err := tr.Validate(); err != nil {
		return trace.Baseline{}, nil, err
	}

	var xs, ys []float64

	for i, t := range tr.Time {
		if mask(t) {
			xs = append(xs, t)
			ys = append(ys, tr.Signal[i])
		}
	}

	if len(xs) < 2 {
		return trace.Baseline{}, nil, ErrDegenerate
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	base := trace.Baseline{Intercept: intercept, Slope: slope}

	return base, base.Curve(tr.Time), nil
}
