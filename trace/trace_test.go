package trace

import (
	"math"
	"testing"
)

func TestValidateGrid(t *testing.T) {
	tests := []struct {
		name    string
		grid    []float64
		wantErr error
	}{
		{"valid", []float64{0, 1, 2, 3}, nil},
		{"single point", []float64{5}, nil},
		{"empty", nil, ErrEmptyTrace},
		{"duplicate", []float64{0, 1, 1, 2}, ErrNonMonotonic},
		{"decreasing", []float64{0, 2, 1}, ErrNonMonotonic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGrid(tt.grid)
			if err != tt.wantErr {
				t.Errorf("ValidateGrid() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTraceValidate(t *testing.T) {
	tr := Trace{Time: []float64{0, 1, 2}, Signal: []float64{1, 2}}
	if err := tr.Validate(); err != ErrLengthMismatch {
		t.Errorf("Validate() = %v, want %v", err, ErrLengthMismatch)
	}

	tr = Trace{Time: []float64{0, 1, 2}, Signal: []float64{1, 2, 3}}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestComponentEval(t *testing.T) {
	c := Component{Area: 2, Center: 1, Sigma: 0.5}

	// Peak value at the center equals the area for the unnormalized kernel.
	if got := c.Eval(1); math.Abs(got-2) > 1e-15 {
		t.Errorf("Eval(center) = %g, want 2", got)
	}

	// One sigma away: area * exp(-0.5).
	want := 2 * math.Exp(-0.5)
	if got := c.Eval(1.5); math.Abs(got-want) > 1e-15 {
		t.Errorf("Eval(center+sigma) = %g, want %g", got, want)
	}
}

func TestComponentDensityIntegratesToArea(t *testing.T) {
	c := Component{Area: 0.75, Center: 6, Sigma: 0.55}
	grid := Linspace(0, 12, 4001)
	curve := c.DensityCurve(grid)

	sum := 0.0
	for i := 1; i < len(grid); i++ {
		sum += 0.5 * (curve[i] + curve[i-1]) * (grid[i] - grid[i-1])
	}

	if math.Abs(sum-0.75) > 1e-6 {
		t.Errorf("integrated density = %g, want 0.75", sum)
	}
}

func TestComponentZeroSigmaClamped(t *testing.T) {
	c := Component{Area: 1, Center: 0, Sigma: 0}

	if got := c.Eval(0); math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("Eval with zero sigma = %g, want finite", got)
	}

	if got := c.Density(1); got != 0 && math.IsNaN(got) {
		t.Errorf("Density with zero sigma = %g, want finite", got)
	}
}

func TestBaselineAt(t *testing.T) {
	b := Baseline{Intercept: 1.5, Slope: 0.25, Ref: 4}

	if got := b.At(4); got != 1.5 {
		t.Errorf("At(ref) = %g, want 1.5", got)
	}

	if got := b.At(8); math.Abs(got-2.5) > 1e-15 {
		t.Errorf("At(ref+4) = %g, want 2.5", got)
	}
}

func TestModel(t *testing.T) {
	grid := Linspace(0, 10, 11)
	b := Baseline{Intercept: 1}
	comps := []Component{
		{Area: 2, Center: 5, Sigma: 1},
		{Area: 1, Center: 5, Sigma: 2},
	}

	got := Model(grid, b, comps)
	for i, tv := range grid {
		want := b.At(tv) + comps[0].Eval(tv) + comps[1].Eval(tv)
		if math.Abs(got[i]-want) > 1e-12 {
			t.Errorf("Model[%d] = %g, want %g", i, got[i], want)
		}
	}
}

func TestWindow(t *testing.T) {
	tr := Trace{
		Time:   []float64{1, 2, 3, 4, 5},
		Signal: []float64{10, 20, 30, 40, 50},
	}

	got := Window(tr, 2, 4)
	if got.Len() != 3 || got.Time[0] != 2 || got.Time[2] != 4 {
		t.Errorf("Window(2, 4) times = %v, want [2 3 4]", got.Time)
	}

	if got.Signal[0] != 20 || got.Signal[2] != 40 {
		t.Errorf("Window(2, 4) signal = %v, want [20 30 40]", got.Signal)
	}

	empty := Window(tr, 6, 7)
	if empty.Len() != 0 {
		t.Errorf("Window(6, 7) length = %d, want 0", empty.Len())
	}
}

func TestLinspace(t *testing.T) {
	grid := Linspace(3, 8, 700)

	if len(grid) != 700 {
		t.Fatalf("length = %d, want 700", len(grid))
	}

	if grid[0] != 3 || grid[699] != 8 {
		t.Errorf("endpoints = %g, %g, want 3, 8", grid[0], grid[699])
	}

	if err := ValidateGrid(grid); err != nil {
		t.Errorf("ValidateGrid() = %v, want nil", err)
	}

	if got := Linspace(1, 2, 1); len(got) != 1 || got[0] != 1 {
		t.Errorf("Linspace(1, 2, 1) = %v, want [1]", got)
	}

	if got := Linspace(1, 2, 0); got != nil {
		t.Errorf("Linspace(1, 2, 0) = %v, want nil", got)
	}
}
