package fit_test

import (
	"fmt"

	"github.com/mila-maya/algo-tda/fit"
	"github.com/mila-maya/algo-tda/trace"
)

func ExampleSharedCenter() {
	grid := trace.Linspace(3, 8, 700)
	comps := []trace.Component{
		{Area: 0.22, Center: 6, Sigma: 0.10},
		{Area: 0.75, Center: 6, Sigma: 0.55},
	}
	base := trace.Baseline{Intercept: 1}

	tr := trace.Trace{
		Time:   grid,
		Signal: trace.ModelDensity(grid, base, comps),
	}

	res, err := fit.SharedCenter(tr, fit.GridConfig{
		Centers: trace.Linspace(5.7, 6.3, 21),
		Narrow:  trace.Linspace(0.04, 0.20, 9),
		Wide:    trace.Linspace(0.30, 1.00, 15),
	})
	if err != nil {
		panic(err)
	}

	narrow, wide := res.Components[0], res.Components[1]

	fmt.Printf("center: %.2f\n", narrow.Center)
	fmt.Printf("narrow: area %.2f sigma %.2f\n", narrow.Area, narrow.Sigma)
	fmt.Printf("wide:   area %.2f sigma %.2f\n", wide.Area, wide.Sigma)

	// Output:
	// center: 6.00
	// narrow: area 0.22 sigma 0.10
	// wide:   area 0.75 sigma 0.55
}
