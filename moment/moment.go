// Package moment seeds peak fits with a zeroth-order estimate of peak
// area, center and width from thresholded trapezoidal moments of a
// baseline-subtracted trace.
package moment

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/mila-maya/algo-tda/trace"
)

// ErrShortTrace is returned when fewer than two samples are available, so
// trapezoidal integration is undefined.
var ErrShortTrace = errors.New("moment: need at least two samples")

const (
	// areaFloor guards the moment divisions against a vanishing total weight.
	areaFloor = 1e-12

	// DefaultVarianceFloor keeps sigma positive for single-peak seeding.
	DefaultVarianceFloor = 1e-12

	// WideSeedVarianceFloor is the coarser floor used when the estimate
	// seeds a shared-center two-component grid search.
	WideSeedVarianceFloor = 1e-6

	// thresholdFraction of the residual maximum below which samples are
	// excluded from the moment integrals.
	thresholdFraction = 0.10
)

// Option configures Estimate.
type Option func(*config)

type config struct {
	varianceFloor float64
}

// WithVarianceFloor overrides the floor applied to the variance estimate
// before taking its square root.
func WithVarianceFloor(v float64) Option {
	return func(c *config) {
		if v > 0 {
			c.varianceFloor = v
		}
	}
}

// Residual subtracts a baseline curve from a signal and clamps the result
// to be non-negative, producing the input expected by Estimate.
func Residual(signal, baselineCurve []float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		r := v - baselineCurve[i]
		if r > 0 {
			out[i] = r
		}
	}

	return out
}

// Estimate computes {area, center, sigma} from the baseline-subtracted
// residual sampled on grid. Samples below 10% of the residual maximum are
// zeroed before integration; if the thresholded weights carry no area the
// unthresholded residual is used instead. The estimate degrades gracefully
// on near-flat input via the area and variance floors, so callers should
// treat center and sigma with low confidence when the returned area is
// tiny.
func Estimate(grid, residual []float64, opts ...Option) (trace.Component, error) {
	if err := trace.ValidateGrid(grid); err != nil {
		return trace.Component{}, err
	}

	if len(grid) < 2 {
		return trace.Component{}, ErrShortTrace
	}

	if len(residual) != len(grid) {
		return trace.Component{}, trace.ErrLengthMismatch
	}

	cfg := config{varianceFloor: DefaultVarianceFloor}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	clamped := make([]float64, len(residual))

	maxVal := 0.0
	for i, v := range residual {
		if v > 0 {
			clamped[i] = v
		}

		if clamped[i] > maxVal {
			maxVal = clamped[i]
		}
	}

	threshold := thresholdFraction * maxVal

	weights := make([]float64, len(clamped))
	for i, v := range clamped {
		if v >= threshold {
			weights[i] = v
		}
	}

	area := integrate.Trapezoidal(grid, weights)
	if math.IsNaN(area) || math.IsInf(area, 0) || area <= 0 {
		weights = clamped
		area = integrate.Trapezoidal(grid, weights)
	}

	div := max(area, areaFloor)

	scratch := make([]float64, len(grid))
	for i, t := range grid {
		scratch[i] = t * weights[i]
	}

	center := integrate.Trapezoidal(grid, scratch) / div

	for i, t := range grid {
		d := t - center
		scratch[i] = d * d * weights[i]
	}

	variance := integrate.Trapezoidal(grid, scratch) / div
	sigma := math.Sqrt(max(variance, cfg.varianceFloor))

	return trace.Component{Area: area, Center: center, Sigma: sigma}, nil
}
