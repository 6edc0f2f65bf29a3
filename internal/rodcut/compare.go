package rodcut

import "fmt"

// Comparison holds the results of solving the same rod with both strategies.
type Comparison struct {
	TopDown  Result `json:"topDown"`
	BottomUp Result `json:"bottomUp"`
	// SameCuts reports whether both strategies also chose the same pieces.
	SameCuts bool `json:"sameCuts"`
}

// Compare solves the rod with every strategy. The strategies must agree on the
// maximum profit; ErrStrategyMismatch is returned together with the results
// when they do not.
func Compare(length int, prices []float64) (Comparison, error) {
	return compareWith(NewTopDown(), NewBottomUp(), length, prices)
}

func compareWith(td, bu Solver, length int, prices []float64) (Comparison, error) {
	topDown, err := td.Solve(length, prices)
	if err != nil {
		return Comparison{}, fmt.Errorf("top-down: %w", err)
	}
	bottomUp, err := bu.Solve(length, prices)
	if err != nil {
		return Comparison{}, fmt.Errorf("bottom-up: %w", err)
	}

	cmp := Comparison{
		TopDown:  topDown,
		BottomUp: bottomUp,
		SameCuts: equalCuts(topDown.Cuts, bottomUp.Cuts),
	}
	if topDown.MaxProfit != bottomUp.MaxProfit {
		return cmp, fmt.Errorf("%w: top-down %v, bottom-up %v", ErrStrategyMismatch, topDown.MaxProfit, bottomUp.MaxProfit)
	}
	return cmp, nil
}

func equalCuts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
