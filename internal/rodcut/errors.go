package rodcut

import "errors"

var (
	// ErrInvalidLength is returned when the requested rod length is negative or above MaxLength.
	ErrInvalidLength = errors.New("length must be a non-negative integer no greater than the maximum")
	// ErrInvalidPrice is returned when a price table entry is negative, NaN or infinite.
	ErrInvalidPrice = errors.New("prices must be non-negative finite numbers")
	// ErrNoAvailableCut is returned when some remaining length cannot be split into priced pieces.
	ErrNoAvailableCut = errors.New("no priced cut is available for the remaining length")
	// ErrUnknownStrategy is returned when a solver strategy name is not recognised.
	ErrUnknownStrategy = errors.New("unknown solver strategy")
	// ErrStrategyMismatch is returned by Compare when the strategies report different profits.
	ErrStrategyMismatch = errors.New("solver strategies disagree on the maximum profit")
)
