// Command tdafig regenerates the reference Taylorgram fitting figures:
// a single-Gaussian moment fit, a shared-center two-component fit and a
// three-peak deconvolution.
//
// Usage:
//
//	tdafig [flags]
//
// Examples:
//
//	tdafig -out figures
//	tdafig -out figures -format svg
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/mila-maya/algo-tda/baseline"
	"github.com/mila-maya/algo-tda/fit"
	"github.com/mila-maya/algo-tda/moment"
	"github.com/mila-maya/algo-tda/render"
	"github.com/mila-maya/algo-tda/synth"
	"github.com/mila-maya/algo-tda/trace"
)

func main() {
	outDir := flag.String("out", ".", "output directory for the figures")
	format := flag.String("format", "png", "image format: png, svg or pdf")
	flag.Parse()

	if err := run(*outDir, *format); err != nil {
		fmt.Fprintln(os.Stderr, "tdafig:", err)
		os.Exit(1)
	}
}

func run(outDir, format string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	figures := []struct {
		name string
		fn   func(string) error
	}{
		{"gaussian-fitting-single", singlePeakFigure},
		{"gaussian-fitting-shared", sharedCenterFigure},
		{"deconvolution-step3", deconvolutionFigure},
	}

	for _, fig := range figures {
		path := filepath.Join(outDir, fig.name+"."+format)
		if err := fig.fn(path); err != nil {
			return fmt.Errorf("%s: %w", fig.name, err)
		}

		fmt.Println("Saved:", path)
	}

	return nil
}

// singlePeakFigure plots a broad noisy peak with drift and spikes, its
// edge-estimated baseline and the Gaussian reconstructed purely from
// thresholded moments.
func singlePeakFigure(path string) error {
	grid := trace.Linspace(0, 120, 600)

	tr, err := synth.Generate(grid, synth.Config{
		Components: []trace.Component{{Area: 3.5 * math.Sqrt2 * math.SqrtPi * 8, Center: 35, Sigma: 8}},
		Normalized: true,
		Baseline:   trace.Baseline{Intercept: 0.05},
		Drift: func(t float64) float64 {
			return 0.03*(t/120) + 0.02*math.Sin(2*math.Pi*t/(120*1.3))
		},
		NoiseScale:       0.05,
		Seed:             3,
		Spikes:           synth.Spikes{Count: 10, MinHeight: 0.15, MaxHeight: 0.4, EdgeMargin: 30},
		ClampNonNegative: true,
	})
	if err != nil {
		return err
	}

	base, baseCurve, err := baseline.Estimate(tr, baseline.Edges(10, 70))
	if err != nil {
		return err
	}

	seed, err := moment.Estimate(tr.Time, moment.Residual(tr.Signal, baseCurve))
	if err != nil {
		return err
	}

	res, err := fit.Evaluate(tr, []trace.Component{seed}, base, fit.KernelDensity)
	if err != nil {
		return err
	}

	view := trace.Window(tr, 10, 60)

	return render.Figure(view, res, render.Config{
		Title:  "Single Gaussian fit",
		XLabel: "Time",
		YLabel: "Absorbance/Signal (mAU)",
	}, path)
}

// sharedCenterFigure plots two overlapping components sharing one elution
// time, deconvolved by the grid search.
func sharedCenterFigure(path string) error {
	grid := trace.Linspace(3, 8, 700)

	tr, err := synth.Generate(grid, synth.Config{
		Components: []trace.Component{
			{Area: 0.22, Center: 6, Sigma: 0.10},
			{Area: 0.75, Center: 6, Sigma: 0.55},
		},
		Normalized: true,
		Baseline:   trace.Baseline{Intercept: 1},
		NoiseScale: 0.006,
		Seed:       7,
	})
	if err != nil {
		return err
	}

	window := trace.Window(tr, 4.5, 7.5)

	edge := baseline.Edges(window.Time[0]+0.7, window.Time[window.Len()-1]-0.7)

	_, baseCurve, err := baseline.Estimate(window, edge)
	if err != nil {
		return err
	}

	seed, err := moment.Estimate(window.Time, moment.Residual(window.Signal, baseCurve),
		moment.WithVarianceFloor(moment.WideSeedVarianceFloor))
	if err != nil {
		return err
	}

	res, err := fit.SharedCenter(window, fit.GridFromSeed(seed))
	if err != nil {
		return err
	}

	return render.Figure(window, res, render.Config{
		Title:  "Shared-center two-component fit",
		XLabel: "Time",
		YLabel: "Absorbance (mAU)",
	}, path)
}

// deconvolutionFigure plots three partially overlapping peaks on a
// drifting baseline, separated by the bounded nonlinear fit.
func deconvolutionFigure(path string) error {
	grid := trace.Linspace(0, 120, 1500)

	trueComps := []trace.Component{
		{Area: 0.50, Center: 34, Sigma: 4.4},
		{Area: 0.62, Center: 51, Sigma: 4.2},
		{Area: 0.38, Center: 62, Sigma: 5.4},
	}

	tr, err := synth.Generate(grid, synth.Config{
		Components: trueComps,
		Baseline:   trace.Baseline{Intercept: 0.025, Slope: 0.00025},
		Drift: func(t float64) float64 {
			return 0.008 * math.Sin(t/11)
		},
		NoiseScale: 0.012,
		Seed:       5,
	})
	if err != nil {
		return err
	}

	init := make([]trace.Component, len(trueComps))
	for i, c := range trueComps {
		init[i] = trace.Component{Area: c.Area, Center: c.Center, Sigma: 1}
	}

	res, err := fit.Curve(tr, fit.DefaultCurveConfig(tr, init))
	if err != nil {
		return err
	}

	return render.Figure(tr, res, render.Config{
		Title:  "Peak deconvolution",
		XLabel: "Time",
		YLabel: "Signal",
	}, path)
}
