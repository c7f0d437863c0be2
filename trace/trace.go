package trace

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by trace validation.
var (
	ErrEmptyTrace     = errors.New("trace: empty time grid")
	ErrLengthMismatch = errors.New("trace: time and signal lengths differ")
	ErrNonMonotonic   = errors.New("trace: time grid must be strictly increasing")
)

// sigmaFloor keeps the Gaussian kernels defined for collapsed widths.
const sigmaFloor = 1e-9

// Trace is one sampled signal: parallel time and signal slices.
// Treat a Trace as immutable once constructed.
type Trace struct {
	Time   []float64
	Signal []float64
}

// Len returns the number of samples.
func (tr Trace) Len() int {
	return len(tr.Time)
}

// Validate checks shape and monotonicity of the trace.
func (tr Trace) Validate() error {
	if len(tr.Time) != len(tr.Signal) {
		return ErrLengthMismatch
	}

	return ValidateGrid(tr.Time)
}

// ValidateGrid checks that a time grid is non-empty and strictly increasing.
func ValidateGrid(t []float64) error {
	if len(t) == 0 {
		return ErrEmptyTrace
	}

	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return ErrNonMonotonic
		}
	}

	return nil
}

// Component is one Gaussian peak parameterized by area, center and width.
type Component struct {
	Area   float64
	Center float64
	Sigma  float64
}

// Eval evaluates the unnormalized kernel area*exp(-0.5*((t-c)/sigma)^2).
func (c Component) Eval(t float64) float64 {
	s := max(c.Sigma, sigmaFloor)
	z := (t - c.Center) / s

	return c.Area * math.Exp(-0.5*z*z)
}

// Density evaluates the normalized Gaussian density scaled by area, so the
// curve integrates to the component area.
func (c Component) Density(t float64) float64 {
	s := max(c.Sigma, sigmaFloor)
	z := (t - c.Center) / s

	return c.Area / (math.Sqrt2 * math.SqrtPi * s) * math.Exp(-0.5*z*z)
}

// Curve evaluates the unnormalized kernel over a grid.
func (c Component) Curve(grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, t := range grid {
		out[i] = c.Eval(t)
	}

	return out
}

// DensityCurve evaluates the area-scaled density over a grid.
func (c Component) DensityCurve(grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, t := range grid {
		out[i] = c.Density(t)
	}

	return out
}

// Baseline is a first-order polynomial about a reference time:
// intercept + slope*(t - Ref).
type Baseline struct {
	Intercept float64
	Slope     float64
	Ref       float64
}

// At evaluates the baseline at time t.
func (b Baseline) At(t float64) float64 {
	return b.Intercept + b.Slope*(t-b.Ref)
}

// Curve evaluates the baseline over a grid.
func (b Baseline) Curve(grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, t := range grid {
		out[i] = b.At(t)
	}

	return out
}

// Model evaluates the baseline plus the sum of unnormalized component
// kernels over a grid.
func Model(grid []float64, b Baseline, comps []Component) []float64 {
	out := b.Curve(grid)
	for _, c := range comps {
		vecmath.AddBlockInPlace(out, c.Curve(grid))
	}

	return out
}

// ModelDensity is Model with the area-scaled density kernel, so each
// component contributes its area to the integral of the curve.
func ModelDensity(grid []float64, b Baseline, comps []Component) []float64 {
	out := b.Curve(grid)
	for _, c := range comps {
		vecmath.AddBlockInPlace(out, c.DensityCurve(grid))
	}

	return out
}

// Window returns the sub-trace with tmin <= t <= tmax. The returned trace
// shares the underlying arrays; traces are immutable by convention.
func Window(tr Trace, tmin, tmax float64) Trace {
	lo := 0
	for lo < len(tr.Time) && tr.Time[lo] < tmin {
		lo++
	}

	hi := lo
	for hi < len(tr.Time) && tr.Time[hi] <= tmax {
		hi++
	}

	return Trace{Time: tr.Time[lo:hi], Signal: tr.Signal[lo:hi]}
}

// Linspace returns n evenly spaced points from lo to hi inclusive.
// n < 2 returns a single point at lo (or nil for n <= 0).
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}

	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}

	out[n-1] = hi

	return out
}
