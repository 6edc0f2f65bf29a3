package rodcut

import (
	"fmt"
	"math"
)

// MaxLength is the longest rod the solvers accept. Both keep a table of
// length+1 entries and the top-down solver recurses once per unit of length.
const MaxLength = 1 << 20

func validate(length int, prices PriceTable) error {
	if length < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}
	if length > MaxLength {
		return fmt.Errorf("%w: %d exceeds the maximum of %d", ErrInvalidLength, length, MaxLength)
	}
	for i, price := range prices {
		if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return fmt.Errorf("%w: price for length %d is %v", ErrInvalidPrice, i+1, price)
		}
	}
	return nil
}
