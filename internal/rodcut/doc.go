// Package rodcut solves the unbounded rod-cutting problem: given a rod of
// integer length and a price for each piece length, it chooses the pieces that
// maximise the total price.
//
// Two interchangeable strategies are provided. NewTopDown recurses from the
// full length and memoizes each subproblem the first time it is requested.
// NewBottomUp fills the profit table from length zero upward. Both record the
// best first cut per length and reconstruct the pieces with the same walk, and
// both break ties by keeping the smallest first cut that reaches the maximum.
//
// Pieces longer than the price table are never chosen. When a length cannot be
// assembled from priced pieces the solvers return ErrNoAvailableCut rather than
// a profit. Lengths above MaxLength are rejected with ErrInvalidLength.
package rodcut
