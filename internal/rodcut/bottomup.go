package rodcut

import "fmt"

type bottomUpSolver struct{}

// NewBottomUp creates a Solver that fills the profit table iteratively from
// length zero upward.
func NewBottomUp() Solver {
	return &bottomUpSolver{}
}

func (s *bottomUpSolver) Solve(length int, prices []float64) (Result, error) {
	table := PriceTable(prices)
	if err := validate(length, table); err != nil {
		return Result{}, err
	}
	if length == 0 {
		return newResult(0, nil), nil
	}

	dp := make([]float64, length+1)
	cuts := make([]int, length+1)

	for n := 1; n <= length; n++ {
		for j := 1; j <= n; j++ {
			price, ok := table.Price(j)
			if !ok {
				break
			}
			prev := n - j
			if prev > 0 && cuts[prev] == 0 {
				continue
			}
			if profit := price + dp[prev]; cuts[n] == 0 || profit > dp[n] {
				dp[n] = profit
				cuts[n] = j
			}
		}
	}

	if cuts[length] == 0 {
		return Result{}, fmt.Errorf("%w: length %d", ErrNoAvailableCut, length)
	}

	result, err := reconstruct(length, cuts)
	if err != nil {
		return Result{}, err
	}
	return newResult(dp[length], result), nil
}
