package recourse_test

import (
	"fmt"

	"github.com/daanvanderveldt/actionable-recourse/actionset"
	"github.com/daanvanderveldt/actionable-recourse/recourse"
	"github.com/daanvanderveldt/actionable-recourse/solver/solvertest"
)

// Example builds an action set from raw samples, solves the recourse
// MIP for one denied individual and prints the cheapest flipping
// action.
func Example() {
	// One actionable feature observed at values 0..3 in the data.
	as, err := actionset.New(
		[]string{"savings"},
		[][]float64{{0, 1, 2, 3}},
	)
	if err != nil {
		fmt.Println("action set:", err)
		return
	}

	// score(x) = savings - 1.5; the individual sits at savings = 0.
	b, err := recourse.New(as, recourse.Config{
		Coefficients: []float64{1},
		Intercept:    -1.5,
		X:            []float64{0},
		CostType:     recourse.CostTotal,
	}, solvertest.Factory)
	if err != nil {
		fmt.Println("build:", err)
		return
	}

	sol, err := b.Fit(recourse.DefaultFitOptions())
	if err != nil {
		fmt.Println("fit:", err)
		return
	}

	fmt.Printf("feasible: %v\n", sol.Feasible)
	fmt.Printf("action:   %+.1f to %s\n", sol.Actions[0], as.Name(0))
	fmt.Printf("cost:     %.2f\n", sol.Cost)
	// Output:
	// feasible: true
	// action:   +2.0 to savings
	// cost:     0.50
}

// ExampleBuilder_Populate enumerates a small flipset: every record uses
// a feature combination no earlier record used.
func ExampleBuilder_Populate() {
	as, err := actionset.New(
		[]string{"income", "debt"},
		[][]float64{{0, 1, 2, 3}, {0, 1, 2, 3, 4}},
	)
	if err != nil {
		fmt.Println("action set:", err)
		return
	}
	// Debt counts against the score, so recourse means paying it down.
	if err := as.SetDirection("debt", actionset.OnlyDown); err != nil {
		fmt.Println("direction:", err)
		return
	}

	b, err := recourse.New(as, recourse.Config{
		Coefficients: []float64{1, -1},
		Intercept:    -0.5,
		X:            []float64{1, 2},
		CostType:     recourse.CostTotal,
	}, solvertest.Factory)
	if err != nil {
		fmt.Println("build:", err)
		return
	}

	sols, err := b.Populate(recourse.PopulateOptions{
		TotalItems: 3,
		Policy:     recourse.DistinctSubsets,
	})
	if err != nil {
		fmt.Println("populate:", err)
		return
	}

	for i, s := range sols {
		fmt.Printf("option %d: income %+.1f, debt %+.1f (cost %.2f)\n",
			i+1, s.Actions[0], s.Actions[1], s.Cost)
	}
	// Output:
	// option 1: income +2.0, debt +0.0 (cost 0.38)
	// option 2: income +0.0, debt -2.0 (cost 0.40)
	// option 3: income +1.0, debt -1.0 (cost 0.45)
}
