// Package synth generates deterministic synthetic Taylorgrams: Gaussian
// peak components on a linear baseline, with optional drift, Gaussian
// noise and sparse outlier spikes.
//
// The same seed always produces the same trace, which makes generated
// fixtures reproducible across runs and platforms.
package synth

import (
	"errors"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mila-maya/algo-tda/trace"
)

// Errors returned by Generate.
var (
	ErrNoiseScale  = errors.New("synth: noise scale must be >= 0")
	ErrSpikeCount  = errors.New("synth: spike count exceeds eligible sample range")
	ErrSpikeHeight = errors.New("synth: spike height range is inverted")
	ErrSpikeMargin = errors.New("synth: spike edge margin must be >= 0")
)

// Spikes configures sparse high-amplitude outliers added at randomly
// chosen sample indices.
type Spikes struct {
	Count      int     // number of spiked samples, 0 disables
	MinHeight  float64 // lower bound of the uniform spike amplitude
	MaxHeight  float64 // upper bound of the uniform spike amplitude
	EdgeMargin int     // samples excluded at both grid ends
}

// Config describes one synthetic trace.
type Config struct {
	Components []trace.Component
	Normalized bool                    // evaluate components as area-scaled densities
	Baseline   trace.Baseline
	Drift      func(t float64) float64 // optional additive drift, e.g. a slow sinusoid
	NoiseScale float64                 // standard deviation of the Gaussian noise
	Seed       uint64
	Spikes     Spikes

	// ClampNonNegative clamps samples to >= 0 (absorbance-like signals).
	ClampNonNegative bool
}

// Validate checks the configuration against a grid of n samples.
func (cfg Config) Validate(n int) error {
	if cfg.NoiseScale < 0 {
		return ErrNoiseScale
	}

	s := cfg.Spikes
	if s.Count == 0 {
		return nil
	}

	if s.EdgeMargin < 0 {
		return ErrSpikeMargin
	}

	if s.MinHeight > s.MaxHeight {
		return ErrSpikeHeight
	}

	eligible := n - 2*s.EdgeMargin
	if s.Count < 0 || s.Count > eligible {
		return ErrSpikeCount
	}

	return nil
}

// Generate produces a noisy trace over the given time grid.
func Generate(grid []float64, cfg Config) (trace.Trace, error) {
	if err := trace.ValidateGrid(grid); err != nil {
		return trace.Trace{}, err
	}

	if err := cfg.Validate(len(grid)); err != nil {
		return trace.Trace{}, err
	}

	var signal []float64
	if cfg.Normalized {
		signal = trace.ModelDensity(grid, cfg.Baseline, cfg.Components)
	} else {
		signal = trace.Model(grid, cfg.Baseline, cfg.Components)
	}
	if cfg.Drift != nil {
		for i, t := range grid {
			signal[i] += cfg.Drift(t)
		}
	}

	src := rand.NewSource(cfg.Seed)
	rng := rand.New(src)

	if cfg.NoiseScale > 0 {
		noise := distuv.Normal{Mu: 0, Sigma: cfg.NoiseScale, Src: rng}
		for i := range signal {
			signal[i] += noise.Rand()
		}
	}

	if cfg.Spikes.Count > 0 {
		addSpikes(signal, cfg.Spikes, rng)
	}

	if cfg.ClampNonNegative {
		for i, v := range signal {
			if v < 0 {
				signal[i] = 0
			}
		}
	}

	out := trace.Trace{
		Time:   append([]float64(nil), grid...),
		Signal: signal,
	}

	return out, nil
}

// addSpikes adds uniform-height outliers at distinct indices chosen
// without replacement from the margin-trimmed index range.
func addSpikes(signal []float64, s Spikes, rng *rand.Rand) {
	lo := s.EdgeMargin
	hi := len(signal) - s.EdgeMargin

	perm := rng.Perm(hi - lo)
	height := distuv.Uniform{Min: s.MinHeight, Max: s.MaxHeight, Src: rng}

	for _, p := range perm[:s.Count] {
		signal[lo+p] += height.Rand()
	}
}
