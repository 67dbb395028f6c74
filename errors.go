package wheeltimer

import "errors"

var (
	// ErrCapacityExceeded is returned by Submit when the number of
	// outstanding timeouts has reached the configured maximum.
	ErrCapacityExceeded = errors.New("wheeltimer: too many pending timeouts")

	// ErrNilTask is returned by Submit when the task is nil.
	ErrNilTask = errors.New("wheeltimer: nil task")

	ErrInvalidTickDuration = errors.New("wheeltimer: tick duration must be greater than 0")
	ErrInvalidWheelSize    = errors.New("wheeltimer: wheel size must be greater than 0")
	ErrInvalidMaxPending   = errors.New("wheeltimer: max pending timeouts must not be negative")
)
