package scheduler

import "errors"

var (
	// ErrInvalidConstraints is returned when the printer limits are not positive.
	ErrInvalidConstraints = errors.New("max volume and max items must be positive")
	// ErrInvalidJob is returned when a job has no id, a duplicate id or negative measurements.
	ErrInvalidJob = errors.New("jobs need a unique id and non-negative volume and print time")
)
