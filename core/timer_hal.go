package core

// Instant is a monotonic timestamp in microseconds since the timer epoch
type Instant uint64

// Micros is an alarm interval in the alarm's native unit (microseconds)
type Micros uint32

// Alarm is the abstract periodic alarm that backs every pending delay.
// Platform-specific implementations program the actual timer hardware.
type Alarm interface {
	// Schedule arms the alarm to fire once after interval
	Schedule(interval Micros) error

	// ClearInterrupt clears the alarm's pending interrupt flag
	ClearInterrupt()

	// EnableInterrupt enables the alarm interrupt and unmasks its IRQ line
	EnableInterrupt()
}

// Clock reads the free-running monotonic timer.
// It must be safe to call from any context without the interrupt mask held.
type Clock interface {
	// Now returns the time elapsed since the timer epoch
	Now() Instant
}
