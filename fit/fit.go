package fit

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/mila-maya/algo-tda/trace"
)

// Errors returned by the fitters.
var (
	ErrNotConverged   = errors.New("fit: did not converge within the iteration budget")
	ErrGridConstraint = errors.New("fit: no grid point satisfies narrow sigma < wide sigma")
	ErrNoComponents   = errors.New("fit: at least one component is required")
	ErrBounds         = errors.New("fit: invalid parameter bounds")
	ErrEmptyGrid      = errors.New("fit: empty search grid")
	ErrTooFewSamples  = errors.New("fit: more parameters than samples")
)

// Kernel selects how a Result's component parameters map to curves.
type Kernel int

const (
	// KernelAmplitude is the nonlinear-fit form area*exp(-0.5*((t-c)/s)^2).
	KernelAmplitude Kernel = iota

	// KernelDensity is the grid-search basis form, the area-scaled normal
	// density, whose curve integrates to the component area.
	KernelDensity
)

// Result is one completed fit. Components are ordered by caller
// convention: as passed for Curve, narrow before wide for SharedCenter.
type Result struct {
	Components []trace.Component
	Baseline   trace.Baseline
	RSS        float64
	Fitted     trace.Trace
	Kernel     Kernel
}

// ComponentCurve evaluates component i over a grid in the Result's kernel
// form, so renderers can draw per-component overlays without refitting.
func (r *Result) ComponentCurve(i int, grid []float64) []float64 {
	if r.Kernel == KernelDensity {
		return r.Components[i].DensityCurve(grid)
	}

	return r.Components[i].Curve(grid)
}

// ConvergenceError reports a nonlinear fit that exhausted its iteration
// budget. Best carries the best iterate found so callers can inspect or
// retry from it; the error unwraps to ErrNotConverged.
type ConvergenceError struct {
	Best *Result
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("fit: did not converge (best rss %.6g)", e.Best.RSS)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNotConverged
}

// Evaluate builds a Result for explicit parameters without fitting: the
// model curve in the requested kernel form, plus its residual sum of
// squares against the trace. Useful for rendering moment-estimated seeds
// and for ranking candidate models.
func Evaluate(tr trace.Trace, comps []trace.Component, base trace.Baseline, kernel Kernel) (*Result, error) {
	if err := tr.Validate(); err != nil {
		return nil, err
	}

	var fitted []float64
	if kernel == KernelDensity {
		fitted = trace.ModelDensity(tr.Time, base, comps)
	} else {
		fitted = trace.Model(tr.Time, base, comps)
	}

	return &Result{
		Components: append([]trace.Component(nil), comps...),
		Baseline:   base,
		RSS:        residualSumOfSquares(tr.Signal, fitted),
		Fitted: trace.Trace{
			Time:   append([]float64(nil), tr.Time...),
			Signal: fitted,
		},
		Kernel: kernel,
	}, nil
}

// residualSumOfSquares computes sum((observed - fitted)^2).
func residualSumOfSquares(observed, fitted []float64) float64 {
	r := make([]float64, len(observed))
	for i := range r {
		r[i] = observed[i] - fitted[i]
	}

	return vecmath.DotProduct(r, r)
}

// newResult assembles a Result for the given parameters over the trace.
func newResult(tr trace.Trace, comps []trace.Component, base trace.Baseline) *Result {
	fitted := trace.Model(tr.Time, base, comps)

	return &Result{
		Components: comps,
		Baseline:   base,
		RSS:        residualSumOfSquares(tr.Signal, fitted),
		Fitted: trace.Trace{
			Time:   append([]float64(nil), tr.Time...),
			Signal: fitted,
		},
	}
}
