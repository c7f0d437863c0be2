package synth

import (
	"math"
	"testing"

	"github.com/mila-maya/algo-tda/trace"
)

func TestGenerateValidation(t *testing.T) {
	grid := trace.Linspace(0, 1, 100)

	tests := []struct {
		name    string
		grid    []float64
		cfg     Config
		wantErr error
	}{
		{"valid", grid, Config{NoiseScale: 0.1}, nil},
		{"empty grid", nil, Config{}, trace.ErrEmptyTrace},
		{"negative noise", grid, Config{NoiseScale: -1}, ErrNoiseScale},
		{"negative margin", grid, Config{Spikes: Spikes{Count: 1, EdgeMargin: -1}}, ErrSpikeMargin},
		{"too many spikes", grid, Config{Spikes: Spikes{Count: 90, EdgeMargin: 10}}, ErrSpikeCount},
		{"inverted spike range", grid, Config{Spikes: Spikes{Count: 1, MinHeight: 2, MaxHeight: 1}}, ErrSpikeHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.grid, tt.cfg)
			if err != tt.wantErr {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	grid := trace.Linspace(0, 120, 600)
	cfg := Config{
		Components: []trace.Component{{Area: 35, Center: 35, Sigma: 8}},
		Baseline:   trace.Baseline{Intercept: 0.05},
		NoiseScale: 0.05,
		Seed:       3,
		Spikes:     Spikes{Count: 10, MinHeight: 0.15, MaxHeight: 0.4, EdgeMargin: 30},
	}

	a, err := Generate(grid, cfg)
	if err != nil {
		t.Fatal(err)
	}

	b, err := Generate(grid, cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Signal {
		if a.Signal[i] != b.Signal[i] {
			t.Fatalf("sample %d differs: %g vs %g", i, a.Signal[i], b.Signal[i])
		}
	}
}

func TestGenerateZeroNoiseIsExactModel(t *testing.T) {
	grid := trace.Linspace(3, 8, 700)
	comps := []trace.Component{
		{Area: 0.22, Center: 6, Sigma: 0.10},
		{Area: 0.75, Center: 6, Sigma: 0.55},
	}
	base := trace.Baseline{Intercept: 1}

	tr, err := Generate(grid, Config{Components: comps, Baseline: base})
	if err != nil {
		t.Fatal(err)
	}

	want := trace.Model(grid, base, comps)
	for i := range want {
		if tr.Signal[i] != want[i] {
			t.Fatalf("sample %d = %g, want %g", i, tr.Signal[i], want[i])
		}
	}
}

func TestGenerateClampNonNegative(t *testing.T) {
	grid := trace.Linspace(0, 1, 200)
	cfg := Config{
		Baseline:         trace.Baseline{Intercept: -0.5},
		NoiseScale:       0.1,
		Seed:             1,
		ClampNonNegative: true,
	}

	tr, err := Generate(grid, cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range tr.Signal {
		if v < 0 {
			t.Fatalf("sample %d = %g, want >= 0", i, v)
		}
	}
}

func TestGenerateSpikesRespectMargin(t *testing.T) {
	grid := trace.Linspace(0, 1, 100)
	cfg := Config{
		Seed:   7,
		Spikes: Spikes{Count: 5, MinHeight: 1, MaxHeight: 2, EdgeMargin: 30},
	}

	tr, err := Generate(grid, cfg)
	if err != nil {
		t.Fatal(err)
	}

	spiked := 0
	for i, v := range tr.Signal {
		if v == 0 {
			continue
		}

		spiked++
		if i < 30 || i >= 70 {
			t.Errorf("spike at index %d violates margin", i)
		}

		if v < 1 || v > 2 {
			t.Errorf("spike height = %g, want in [1, 2]", v)
		}
	}

	if spiked != 5 {
		t.Errorf("spiked samples = %d, want 5", spiked)
	}
}

func TestGenerateDriftAdded(t *testing.T) {
	grid := trace.Linspace(0, 10, 50)
	cfg := Config{
		Baseline: trace.Baseline{Intercept: 0.05},
		Drift:    func(tv float64) float64 { return 0.02 * math.Sin(tv) },
	}

	tr, err := Generate(grid, cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i, tv := range grid {
		want := 0.05 + 0.02*math.Sin(tv)
		if math.Abs(tr.Signal[i]-want) > 1e-15 {
			t.Fatalf("sample %d = %g, want %g", i, tr.Signal[i], want)
		}
	}
}
