package rodcut

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solvers() map[Strategy]Solver {
	return map[Strategy]Solver{
		StrategyTopDown:  NewTopDown(),
		StrategyBottomUp: NewBottomUp(),
	}
}

func TestSolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		length     int
		prices     []float64
		wantProfit float64
		wantCuts   []int
	}{
		{
			name:       "TextbookFiveUnits",
			length:     5,
			prices:     []float64{2, 5, 7, 8, 10},
			wantProfit: 12,
			wantCuts:   []int{1, 2, 2},
		},
		{
			name:       "BestNotToCut",
			length:     3,
			prices:     []float64{1, 3, 8},
			wantProfit: 8,
			wantCuts:   []int{3},
		},
		{
			name:       "ManySmallPieces",
			length:     4,
			prices:     []float64{3, 5, 6, 7},
			wantProfit: 12,
			wantCuts:   []int{1, 1, 1, 1},
		},
		{
			name:       "TwoEqualHalves",
			length:     4,
			prices:     []float64{1, 5, 8, 9},
			wantProfit: 10,
			wantCuts:   []int{2, 2},
		},
		{
			name:       "EmptyRod",
			length:     0,
			prices:     nil,
			wantProfit: 0,
			wantCuts:   []int{},
		},
		{
			name:       "RodLongerThanTable",
			length:     7,
			prices:     []float64{1, 5},
			wantProfit: 16,
			wantCuts:   []int{1, 2, 2, 2},
		},
		{
			name:       "ZeroPrices",
			length:     3,
			prices:     []float64{0, 0, 0},
			wantProfit: 0,
			wantCuts:   []int{1, 1, 1},
		},
		{
			name:       "FractionalPrices",
			length:     2,
			prices:     []float64{0.5, 1.25},
			wantProfit: 1.25,
			wantCuts:   []int{2},
		},
	}

	for strategy, solver := range solvers() {
		for _, tc := range tests {
			t.Run(fmt.Sprintf("%s/%s", strategy, tc.name), func(t *testing.T) {
				t.Parallel()

				got, err := solver.Solve(tc.length, tc.prices)
				require.NoError(t, err)
				assert.Equal(t, tc.wantProfit, got.MaxProfit)
				assert.Equal(t, tc.wantCuts, got.Cuts)
				assert.Equal(t, len(tc.wantCuts)-1, got.NumberOfCuts)
			})
		}
	}
}

func TestSolveErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		length  int
		prices  []float64
		wantErr error
	}{
		{name: "NegativeLength", length: -1, prices: []float64{1}, wantErr: ErrInvalidLength},
		{name: "LengthAboveMax", length: MaxLength + 1, prices: []float64{1}, wantErr: ErrInvalidLength},
		{name: "MaxIntLength", length: math.MaxInt, prices: []float64{1}, wantErr: ErrInvalidLength},
		{name: "NegativePrice", length: 3, prices: []float64{1, -2, 3}, wantErr: ErrInvalidPrice},
		{name: "NaNPrice", length: 1, prices: []float64{math.NaN()}, wantErr: ErrInvalidPrice},
		{name: "InfinitePrice", length: 1, prices: []float64{math.Inf(1)}, wantErr: ErrInvalidPrice},
		{name: "EmptyTable", length: 2, prices: []float64{}, wantErr: ErrNoAvailableCut},
		{name: "NilTable", length: 1, prices: nil, wantErr: ErrNoAvailableCut},
		// invalid prices are reported even when nothing would be computed
		{name: "NegativePriceEmptyRod", length: 0, prices: []float64{-1}, wantErr: ErrInvalidPrice},
	}

	for strategy, solver := range solvers() {
		for _, tc := range tests {
			t.Run(fmt.Sprintf("%s/%s", strategy, tc.name), func(t *testing.T) {
				t.Parallel()

				got, err := solver.Solve(tc.length, tc.prices)
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, Result{}, got)
			})
		}
	}
}

func TestInvalidPriceNamesLength(t *testing.T) {
	t.Parallel()

	_, err := NewBottomUp().Solve(3, []float64{1, -2, 3})
	require.ErrorIs(t, err, ErrInvalidPrice)
	assert.Contains(t, err.Error(), "length 2")
}

func TestNoAvailableCutIsNotZeroProfit(t *testing.T) {
	t.Parallel()

	for strategy, solver := range solvers() {
		t.Run(string(strategy), func(t *testing.T) {
			_, err := solver.Solve(2, nil)
			require.ErrorIs(t, err, ErrNoAvailableCut)

			got, err := solver.Solve(2, []float64{0})
			require.NoError(t, err)
			assert.Zero(t, got.MaxProfit)
			assert.Equal(t, []int{1, 1}, got.Cuts)
		})
	}
}

func TestTieKeepsSmallestFirstCut(t *testing.T) {
	t.Parallel()

	// 1+1 and 2 both earn 2; the first maximum found is the cut of length 1.
	for strategy, solver := range solvers() {
		t.Run(string(strategy), func(t *testing.T) {
			got, err := solver.Solve(2, []float64{1, 2})
			require.NoError(t, err)
			assert.Equal(t, []int{1, 1}, got.Cuts)
		})
	}
}

func TestSolveProperties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 7))
	topDown, bottomUp := NewTopDown(), NewBottomUp()

	for iter := 0; iter < 200; iter++ {
		prices := randomPrices(rng, 1+rng.IntN(12))
		length := rng.IntN(40)

		td, err := topDown.Solve(length, prices)
		require.NoError(t, err)
		bu, err := bottomUp.Solve(length, prices)
		require.NoError(t, err)

		require.Equal(t, td.MaxProfit, bu.MaxProfit, "length %d prices %v", length, prices)

		for _, res := range []Result{td, bu} {
			require.Equal(t, length, sum(res.Cuts), "cuts %v", res.Cuts)
			require.Equal(t, len(res.Cuts)-1, res.NumberOfCuts)
			require.Equal(t, res.MaxProfit, value(res.Cuts, prices))
			for _, cut := range res.Cuts {
				require.GreaterOrEqual(t, cut, 1)
				require.LessOrEqual(t, cut, len(prices))
			}
		}
	}
}

func TestSolveMatchesExhaustiveSearch(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 11))
	for iter := 0; iter < 50; iter++ {
		prices := randomPrices(rng, 1+rng.IntN(8))
		length := 1 + rng.IntN(10)
		want := bruteForce(length, prices)

		for strategy, solver := range solvers() {
			got, err := solver.Solve(length, prices)
			require.NoError(t, err)
			require.Equal(t, want, got.MaxProfit, "%s length %d prices %v", strategy, length, prices)
		}
	}
}

func TestMaxProfitMonotoneInLength(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(5, 9))
	prices := randomPrices(rng, 10)

	for strategy, solver := range solvers() {
		t.Run(string(strategy), func(t *testing.T) {
			prev := 0.0
			for length := 0; length <= 60; length++ {
				got, err := solver.Solve(length, prices)
				require.NoError(t, err)
				require.GreaterOrEqual(t, got.MaxProfit, prev, "length %d", length)
				prev = got.MaxProfit
			}
		})
	}
}

func TestDominantWholePieceIsNotCut(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(8, 8))
	for length := 1; length <= 15; length++ {
		prices := randomPrices(rng, length)
		// any split earns at most 20 per unit
		prices[length-1] = float64(20*length + 1)

		for strategy, solver := range solvers() {
			got, err := solver.Solve(length, prices)
			require.NoError(t, err)
			assert.Equal(t, []int{length}, got.Cuts, "%s length %d", strategy, length)
			assert.Equal(t, 0, got.NumberOfCuts)
		}
	}
}

func TestSolveDoesNotMutatePrices(t *testing.T) {
	t.Parallel()

	prices := []float64{2, 5, 7, 8, 10}
	snapshot := append([]float64(nil), prices...)
	for _, solver := range solvers() {
		_, err := solver.Solve(5, prices)
		require.NoError(t, err)
	}
	assert.Equal(t, snapshot, prices)
}

func TestSolveConcurrentCalls(t *testing.T) {
	t.Parallel()

	prices := []float64{1, 5, 8, 9, 10, 17, 17, 20}
	want, err := NewBottomUp().Solve(30, prices)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, solver := range solvers() {
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := solver.Solve(30, prices)
				if err != nil {
					t.Errorf("Solve failed: %v", err)
					return
				}
				if got.MaxProfit != want.MaxProfit {
					t.Errorf("expected profit %v, got %v", want.MaxProfit, got.MaxProfit)
				}
			}()
		}
	}
	wg.Wait()
}

func TestReconstruct(t *testing.T) {
	t.Parallel()

	cuts, err := reconstruct(5, []int{0, 1, 2, 1, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2}, cuts)

	cuts, err = reconstruct(0, []int{0})
	require.NoError(t, err)
	assert.Empty(t, cuts)

	_, err = reconstruct(3, []int{0, 1, 0, 0})
	require.ErrorIs(t, err, ErrNoAvailableCut)

	_, err = reconstruct(2, []int{0, 1, 3})
	require.ErrorIs(t, err, ErrNoAvailableCut)
}

func TestResultPieces(t *testing.T) {
	t.Parallel()

	res := Result{Cuts: []int{1, 2, 2}}
	assert.Equal(t, map[int]int{1: 1, 2: 2}, res.Pieces())
	assert.Empty(t, Result{}.Pieces())
}

func TestPriceTablePrice(t *testing.T) {
	t.Parallel()

	table := PriceTable{2, 5}
	price, ok := table.Price(2)
	assert.True(t, ok)
	assert.Equal(t, 5.0, price)

	for _, length := range []int{-1, 0, 3} {
		_, ok := table.Price(length)
		assert.False(t, ok, "length %d", length)
	}
}

func randomPrices(rng *rand.Rand, n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = float64(rng.IntN(21))
	}
	return prices
}

func sum(cuts []int) int {
	total := 0
	for _, cut := range cuts {
		total += cut
	}
	return total
}

func value(cuts []int, prices []float64) float64 {
	total := 0.0
	for _, cut := range cuts {
		total += prices[cut-1]
	}
	return total
}

// bruteForce tries every composition of length into pieces that have a price.
func bruteForce(length int, prices []float64) float64 {
	if length == 0 {
		return 0
	}
	best := math.Inf(-1)
	for i := 1; i <= length && i <= len(prices); i++ {
		if v := prices[i-1] + bruteForce(length-i, prices); v > best {
			best = v
		}
	}
	return best
}

func BenchmarkTopDown(b *testing.B) {
	solver := NewTopDown()
	prices := []float64{1, 5, 8, 9, 10, 17, 17, 20, 24, 30}
	for i := 0; i < b.N; i++ {
		if _, err := solver.Solve(2_000, prices); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

func BenchmarkBottomUp(b *testing.B) {
	solver := NewBottomUp()
	prices := []float64{1, 5, 8, 9, 10, 17, 17, 20, 24, 30}
	for i := 0; i < b.N; i++ {
		if _, err := solver.Solve(2_000, prices); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
