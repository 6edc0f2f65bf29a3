package rodcut

import "fmt"

type topDownSolver struct{}

// NewTopDown creates a Solver based on memoized recursion.
func NewTopDown() Solver {
	return &topDownSolver{}
}

func (s *topDownSolver) Solve(length int, prices []float64) (Result, error) {
	table := PriceTable(prices)
	if err := validate(length, table); err != nil {
		return Result{}, err
	}
	if length == 0 {
		return newResult(0, nil), nil
	}

	m := &memo{
		prices:    table,
		profit:    make(map[int]float64, length),
		bestCutAt: make([]int, length+1),
	}
	best, ok := m.solve(length)
	if !ok {
		return Result{}, fmt.Errorf("%w: length %d", ErrNoAvailableCut, length)
	}

	cuts, err := reconstruct(length, m.bestCutAt)
	if err != nil {
		return Result{}, err
	}
	return newResult(best, cuts), nil
}

// memo caches the best profit per length. A cached length with bestCutAt of
// zero is infeasible.
type memo struct {
	prices    PriceTable
	profit    map[int]float64
	bestCutAt []int
}

func (m *memo) solve(n int) (float64, bool) {
	if n == 0 {
		return 0, true
	}
	if profit, ok := m.profit[n]; ok {
		return profit, m.bestCutAt[n] > 0
	}

	best, bestCut := 0.0, 0
	for i := 1; i <= n; i++ {
		price, ok := m.prices.Price(i)
		if !ok {
			// prices are contiguous, no longer piece has one either
			break
		}
		rest, feasible := m.solve(n - i)
		if !feasible {
			continue
		}
		if profit := price + rest; bestCut == 0 || profit > best {
			best, bestCut = profit, i
		}
	}

	m.profit[n] = best
	m.bestCutAt[n] = bestCut
	return best, bestCut > 0
}
