package rodcut

// PriceTable lists piece prices by length: the entry at index k-1 is the price
// of a piece of length k.
type PriceTable []float64

// Price returns the price of a piece of the given length. The second value is
// false when the table lists no price for that length.
func (t PriceTable) Price(length int) (float64, bool) {
	if length < 1 || length > len(t) {
		return 0, false
	}
	return t[length-1], true
}

// Result is the outcome of cutting a rod optimally.
// NumberOfCuts counts cut points, so it is always len(Cuts)-1 and is -1 for an
// empty rod.
type Result struct {
	MaxProfit    float64 `json:"maxProfit"`
	Cuts         []int   `json:"cuts"`
	NumberOfCuts int     `json:"numberOfCuts"`
}

// Pieces groups the cuts by piece length.
func (r Result) Pieces() map[int]int {
	pieces := make(map[int]int, len(r.Cuts))
	for _, cut := range r.Cuts {
		pieces[cut]++
	}
	return pieces
}

// Solver describes the behaviour required from a rod-cutting strategy.
type Solver interface {
	Solve(length int, prices []float64) (Result, error)
}

func newResult(profit float64, cuts []int) Result {
	if cuts == nil {
		cuts = []int{}
	}
	return Result{
		MaxProfit:    profit,
		Cuts:         cuts,
		NumberOfCuts: len(cuts) - 1,
	}
}
