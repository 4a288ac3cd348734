package core

import "errors"

// Error taxonomy shared by trail, stamp and emitter
// Package sentinels wrap one of these so callers can classify with errors.Is
var (
	// ErrConfiguration marks setup-time faults (missing template, invalid config); never retried
	ErrConfiguration = errors.New("configuration error")

	// ErrPrecondition marks rejected calls (short snapshot, unacquired stamp); the operation is a no-op
	ErrPrecondition = errors.New("precondition violation")

	// ErrCapacityExceeded marks a live trail larger than the extractor working buffer
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// IsAbsorbable reports whether err is a local degradation (no stamp) rather than a fault to surface
func IsAbsorbable(err error) bool {
	return errors.Is(err, ErrPrecondition) || errors.Is(err, ErrCapacityExceeded)
}
