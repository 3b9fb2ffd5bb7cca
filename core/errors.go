package core

import "errors"

var (
	// ErrPoolExhausted is returned when every wake slot is in use
	ErrPoolExhausted = errors.New("core: no empty wake slot available")

	// ErrInvalidIndex is returned for a slot index outside the pool
	ErrInvalidIndex = errors.New("core: invalid wake slot index")

	// ErrNotInitialized is the panic value when the scheduler is used before Init
	ErrNotInitialized = errors.New("core: delay scheduler not initialized")

	// ErrResolutionTooFine is returned for a resolution below one microsecond
	ErrResolutionTooFine = errors.New("core: resolution below one microsecond")

	// ErrResolutionTooCoarse is returned for a resolution the alarm cannot represent
	ErrResolutionTooCoarse = errors.New("core: resolution exceeds alarm interval range")

	// ErrDeadlineOverflow is returned when now+timeout does not fit in an Instant
	ErrDeadlineOverflow = errors.New("core: timeout is too large")

	// ErrAlarm wraps failures reported by the alarm peripheral
	ErrAlarm = errors.New("core: failed to schedule alarm")
)
