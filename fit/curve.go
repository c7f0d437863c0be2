package fit

import (
	"math"
	"sort"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/mila-maya/algo-tda/trace"
)

// lm termination tolerances, matching the solver's recommended defaults.
const (
	lmTau          = 1e-6
	lmEps          = 1e-8
	lmObjectiveTol = 1e-16

	// defaultMaxIterations is generous on purpose: the multi-Gaussian
	// landscape is non-convex and can need many damped steps.
	defaultMaxIterations = 120000
)

// Range is a closed parameter interval.
type Range struct {
	Min float64
	Max float64
}

func (r Range) valid() bool {
	return r.Min < r.Max
}

func (r Range) clamp(v float64) float64 {
	return min(max(v, r.Min), r.Max)
}

// ComponentBounds box one component's parameters.
type ComponentBounds struct {
	Area   Range
	Center Range
	Sigma  Range
}

// BaselineBounds box the linear baseline coefficients.
type BaselineBounds struct {
	Intercept Range
	Slope     Range
}

// CurveConfig configures the bounded nonlinear least-squares fit.
type CurveConfig struct {
	Init           []trace.Component // per-component initial guesses
	Bounds         []ComponentBounds // one entry per component
	BaselineInit   trace.Baseline    // Ref is ignored; mean(t) is used
	BaselineBounds BaselineBounds
	MaxIterations  int // 0 selects defaultMaxIterations
}

// Validate checks the configuration shape and bound ordering. Sigma and
// area upper bounds must be strictly positive.
func (cfg CurveConfig) Validate() error {
	if len(cfg.Init) == 0 {
		return ErrNoComponents
	}

	if len(cfg.Bounds) != len(cfg.Init) {
		return ErrBounds
	}

	for _, b := range cfg.Bounds {
		if !b.Area.valid() || !b.Center.valid() || !b.Sigma.valid() {
			return ErrBounds
		}

		if b.Area.Max <= 0 || b.Sigma.Max <= 0 {
			return ErrBounds
		}
	}

	if !cfg.BaselineBounds.Intercept.valid() || !cfg.BaselineBounds.Slope.valid() {
		return ErrBounds
	}

	return nil
}

// DefaultCurveConfig derives bounds from the data: component areas up to
// five times the signal span, centers inside the observed time range,
// widths between the sample spacing and the window length, and a baseline
// seeded at the signal median with zero slope.
func DefaultCurveConfig(tr trace.Trace, init []trace.Component) CurveConfig {
	n := tr.Len()
	if n < 2 || len(tr.Signal) != n {
		return CurveConfig{Init: init}
	}

	tMin := tr.Time[0]
	tMax := tr.Time[n-1]
	tRange := tMax - tMin
	dt := tRange / float64(n-1)

	yMin := floats.Min(tr.Signal)
	yMax := floats.Max(tr.Signal)
	span := max(yMax-yMin, 0.1)

	comps := make([]trace.Component, len(init))
	bounds := make([]ComponentBounds, len(init))

	for i, c := range init {
		comps[i] = trace.Component{
			Area:   max(c.Area, 1e-5),
			Center: c.Center,
			Sigma:  c.Sigma,
		}
		bounds[i] = ComponentBounds{
			Area:   Range{0, 5 * span},
			Center: Range{tMin, tMax},
			Sigma:  Range{dt, tRange},
		}
	}

	sorted := append([]float64(nil), tr.Signal...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	slopeLimit := 10 * span / tRange

	return CurveConfig{
		Init:         comps,
		Bounds:       bounds,
		BaselineInit: trace.Baseline{Intercept: median},
		BaselineBounds: BaselineBounds{
			Intercept: Range{yMin - span/2, yMax + span/2},
			Slope:     Range{-slopeLimit, slopeLimit},
		},
	}
}

// Curve fits k Gaussian components plus a linear baseline about mean(t)
// to the trace by bounded nonlinear least squares. Box bounds are imposed
// through a sine reparameterization so the Levenberg-Marquardt solver
// works on an unconstrained vector. If the solver gives up before
// converging, the error is a *ConvergenceError carrying the best iterate.
func Curve(tr trace.Trace, cfg CurveConfig) (*Result, error) {
	if err := tr.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	k := len(cfg.Init)
	dim := 3*k + 2

	if tr.Len() < dim {
		return nil, ErrTooFewSamples
	}

	tMean := stat.Mean(tr.Time, nil)

	lo := make([]float64, dim)
	hi := make([]float64, dim)
	p0 := make([]float64, dim)

	for i, c := range cfg.Init {
		b := cfg.Bounds[i]

		lo[3*i], hi[3*i] = b.Area.Min, b.Area.Max
		lo[3*i+1], hi[3*i+1] = b.Center.Min, b.Center.Max
		lo[3*i+2], hi[3*i+2] = b.Sigma.Min, b.Sigma.Max

		p0[3*i] = b.Area.clamp(c.Area)
		p0[3*i+1] = b.Center.clamp(c.Center)
		p0[3*i+2] = b.Sigma.clamp(c.Sigma)
	}

	lo[dim-2], hi[dim-2] = cfg.BaselineBounds.Intercept.Min, cfg.BaselineBounds.Intercept.Max
	lo[dim-1], hi[dim-1] = cfg.BaselineBounds.Slope.Min, cfg.BaselineBounds.Slope.Max
	p0[dim-2] = cfg.BaselineBounds.Intercept.clamp(cfg.BaselineInit.Intercept)
	p0[dim-1] = cfg.BaselineBounds.Slope.clamp(cfg.BaselineInit.Slope)

	z0 := make([]float64, dim)
	for i := range z0 {
		z0[i] = unboundedInit(p0[i], lo[i], hi[i])
	}

	// The numeric Jacobian evaluates the residual function from multiple
	// goroutines, so the decoded parameter buffer is local per call.
	residuals := func(dst, z []float64) {
		params := make([]float64, len(z))
		for i := range z {
			params[i] = boundedParam(z[i], lo[i], hi[i])
		}

		comps, base := decodeParams(params, k, tMean)

		for i, t := range tr.Time {
			v := base.At(t)
			for _, c := range comps {
				v += c.Eval(t)
			}

			dst[i] = v - tr.Signal[i]
		}
	}

	iterations := cfg.MaxIterations
	if iterations <= 0 {
		iterations = defaultMaxIterations
	}

	numJac := lm.NumJac{Func: residuals}
	problem := lm.LMProblem{
		Dim:        dim,
		Size:       tr.Len(),
		Func:       residuals,
		Jac:        numJac.Jac,
		InitParams: z0,
		Tau:        lmTau,
		Eps1:       lmEps,
		Eps2:       lmEps,
	}

	solution, lmErr := lm.LM(problem, &lm.Settings{
		Iterations:   iterations,
		ObjectiveTol: lmObjectiveTol,
	})

	best := z0
	if solution != nil && len(solution.X) == dim {
		best = solution.X
	}

	params := make([]float64, dim)
	for i := range best {
		params[i] = boundedParam(best[i], lo[i], hi[i])
	}

	comps, base := decodeParams(params, k, tMean)
	result := newResult(tr, comps, base)

	if lmErr != nil || (solution != nil && solution.Status == optimize.IterationLimit) {
		return nil, &ConvergenceError{Best: result}
	}

	return result, nil
}

// decodeParams splits the flat parameter vector
// [a1, c1, s1, ..., ak, ck, sk, intercept, slope] into model terms.
func decodeParams(params []float64, k int, tMean float64) ([]trace.Component, trace.Baseline) {
	comps := make([]trace.Component, k)
	for i := range comps {
		comps[i] = trace.Component{
			Area:   params[3*i],
			Center: params[3*i+1],
			Sigma:  params[3*i+2],
		}
	}

	base := trace.Baseline{
		Intercept: params[3*k],
		Slope:     params[3*k+1],
		Ref:       tMean,
	}

	return comps, base
}

// boundedParam maps an unbounded solver variable into [lo, hi] using the
// sine transform.
func boundedParam(z, lo, hi float64) float64 {
	return lo + (hi-lo)*0.5*(math.Sin(z)+1)
}

// unboundedInit inverts boundedParam for the initial guess, keeping it
// strictly inside the interval so the inverse stays finite.
func unboundedInit(p, lo, hi float64) float64 {
	u := (p - lo) / (hi - lo)
	u = min(max(u, 1e-9), 1-1e-9)

	return math.Asin(2*u - 1)
}
