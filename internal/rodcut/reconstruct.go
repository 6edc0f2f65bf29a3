package rodcut

import "fmt"

// reconstruct walks bestCutAt from length down to zero and returns the pieces
// in the order they are cut off.
func reconstruct(length int, bestCutAt []int) ([]int, error) {
	cuts := make([]int, 0)
	for remaining := length; remaining > 0; {
		cut := bestCutAt[remaining]
		if cut <= 0 || cut > remaining {
			return nil, fmt.Errorf("%w: length %d", ErrNoAvailableCut, remaining)
		}
		cuts = append(cuts, cut)
		remaining -= cut
	}
	return cuts, nil
}
