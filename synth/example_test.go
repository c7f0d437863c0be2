package synth_test

import (
	"fmt"

	"github.com/mila-maya/algo-tda/synth"
	"github.com/mila-maya/algo-tda/trace"
)

func ExampleGenerate() {
	grid := trace.Linspace(3, 8, 700)

	tr, err := synth.Generate(grid, synth.Config{
		Components: []trace.Component{
			{Area: 0.22, Center: 6, Sigma: 0.10},
			{Area: 0.75, Center: 6, Sigma: 0.55},
		},
		Normalized: true,
		Baseline:   trace.Baseline{Intercept: 1},
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("samples: %d\n", tr.Len())
	fmt.Printf("first: %.3f\n", tr.Signal[0])

	// Output:
	// samples: 700
	// first: 1.000
}
