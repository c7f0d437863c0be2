// Package render draws annotated figures from fitted Taylorgram models:
// the raw trace, the fitted curve, the fitted baseline and shaded
// per-component overlays. It is a pure consumer of fit results and never
// refits.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mila-maya/algo-tda/fit"
	"github.com/mila-maya/algo-tda/trace"
)

// ErrNoResult is returned when a figure is requested without a fit result.
var ErrNoResult = errors.New("render: nil fit result")

// Palette used for component overlays, cycled when a fit carries more
// components than colors.
var componentColors = []color.RGBA{
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x17, G: 0xa2, B: 0xb8, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
}

var (
	dataColor     = color.RGBA{R: 0x1f, G: 0x21, B: 0xb4, A: 0xff}
	fitColor      = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	baselineColor = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
)

// Config holds figure labels and dimensions.
type Config struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length // 0 selects 6 inches
	Height vg.Length // 0 selects 4 inches
}

// Figure renders one trace with its fit overlay to path. The image format
// follows the file extension (.png, .svg, .pdf, ...).
func Figure(tr trace.Trace, res *fit.Result, cfg Config, path string) error {
	if res == nil {
		return ErrNoResult
	}

	if err := tr.Validate(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = cfg.XLabel
	p.Y.Label.Text = cfg.YLabel

	baseCurve := res.Baseline.Curve(tr.Time)

	for i := range res.Components {
		comp := res.ComponentCurve(i, tr.Time)
		tint := componentColors[i%len(componentColors)]

		shade, err := componentShade(tr.Time, baseCurve, comp, tint)
		if err != nil {
			return err
		}

		p.Add(shade)

		outline, err := plotter.NewLine(offsetXYs(tr.Time, baseCurve, comp))
		if err != nil {
			return err
		}

		outline.LineStyle.Color = tint
		outline.LineStyle.Width = vg.Points(1.5)
		outline.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(outline)
		p.Legend.Add(componentName(i), outline)
	}

	data, err := plotter.NewLine(xys(tr.Time, tr.Signal))
	if err != nil {
		return err
	}

	data.LineStyle.Color = dataColor
	data.LineStyle.Width = vg.Points(1)
	p.Add(data)
	p.Legend.Add("data", data)

	fitted, err := plotter.NewLine(xys(res.Fitted.Time, res.Fitted.Signal))
	if err != nil {
		return err
	}

	fitted.LineStyle.Color = fitColor
	fitted.LineStyle.Width = vg.Points(2)
	p.Add(fitted)
	p.Legend.Add("fit", fitted)

	base, err := plotter.NewLine(xys(tr.Time, baseCurve))
	if err != nil {
		return err
	}

	base.LineStyle.Color = baselineColor
	base.LineStyle.Width = vg.Points(1.5)
	base.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(base)
	p.Legend.Add("baseline", base)

	if err := addCenterRules(p, tr, res); err != nil {
		return err
	}

	p.Legend.Top = true

	width := cfg.Width
	if width == 0 {
		width = 6 * vg.Inch
	}

	height := cfg.Height
	if height == 0 {
		height = 4 * vg.Inch
	}

	return p.Save(width, height, path)
}

// addCenterRules marks each distinct fitted center with a vertical rule
// spanning the observed signal range.
func addCenterRules(p *plot.Plot, tr trace.Trace, res *fit.Result) error {
	yMin := tr.Signal[0]
	yMax := tr.Signal[0]

	for _, v := range tr.Signal {
		yMin = min(yMin, v)
		yMax = max(yMax, v)
	}

	seen := make(map[float64]bool, len(res.Components))

	for _, c := range res.Components {
		if seen[c.Center] {
			continue
		}

		seen[c.Center] = true

		rule, err := plotter.NewLine(plotter.XYs{
			{X: c.Center, Y: yMin},
			{X: c.Center, Y: yMax},
		})
		if err != nil {
			return err
		}

		rule.LineStyle.Color = baselineColor
		rule.LineStyle.Width = vg.Points(1)
		rule.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
		p.Add(rule)
	}

	return nil
}

// componentShade fills the region between the baseline and the
// baseline-plus-component curve.
func componentShade(grid, base, comp []float64, tint color.RGBA) (*plotter.Polygon, error) {
	pts := make(plotter.XYs, 0, 2*len(grid))

	for i, t := range grid {
		pts = append(pts, plotter.XY{X: t, Y: base[i] + comp[i]})
	}

	for i := len(grid) - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: grid[i], Y: base[i]})
	}

	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return nil, err
	}

	fill := tint
	fill.A = 0x30
	poly.Color = fill
	poly.LineStyle.Width = 0

	return poly, nil
}

func componentName(i int) string {
	return fmt.Sprintf("component %d", i+1)
}

func xys(grid, values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(grid))
	for i := range pts {
		pts[i] = plotter.XY{X: grid[i], Y: values[i]}
	}

	return pts
}

func offsetXYs(grid, base, comp []float64) plotter.XYs {
	pts := make(plotter.XYs, len(grid))
	for i := range pts {
		pts[i] = plotter.XY{X: grid[i], Y: base[i] + comp[i]}
	}

	return pts
}
