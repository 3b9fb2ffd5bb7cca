package core

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Scheduler creates delays backed by the shared periodic alarm. It is a
// handle to the process-wide state published by Init, so the zero value
// works once Init has run and panics with ErrNotInitialized before that.
type Scheduler struct{}

// Init configures the periodic alarm and publishes the scheduler state.
//
// The resolution is how often the alarm fires to look for expired delays.
// It trades wake accuracy against interrupt load: every delay is resumed by
// the first sweep at or after its deadline, so it wakes at most one
// resolution late.
//
// Init should run once. Calling it again replaces the alarm, clock and
// interval and resets the counters; slots owned by live delays are kept.
func Init(alarm Alarm, clock Clock, resolution time.Duration) (Scheduler, error) {
	interval, err := intervalFromResolution(resolution)
	if err != nil {
		return Scheduler{}, err
	}

	state := disableInterrupts()
	// Arm before enabling so a failed Init leaves the interrupt off
	if err := alarm.Schedule(interval); err != nil {
		shared = nil
		restoreInterrupts(state)
		return Scheduler{}, fmt.Errorf("%w: %w", ErrAlarm, err)
	}
	shared = &sharedState{alarm: alarm, clock: clock, interval: interval}
	stats = Stats{}
	notePeak()
	alarm.EnableInterrupt()
	capacity := pool.Len()
	restoreInterrupts(state)

	DebugPrintln("[DELAY] init interval_us=" + utoa(uint32(interval)) + " slots=" + itoa(capacity))
	return Scheduler{}, nil
}

// MustInit is like Init but panics on error
func MustInit(alarm Alarm, clock Clock, resolution time.Duration) Scheduler {
	s, err := Init(alarm, clock, resolution)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateResolution reports whether Init would accept resolution
func ValidateResolution(resolution time.Duration) error {
	_, err := intervalFromResolution(resolution)
	return err
}

// intervalFromResolution converts a resolution to the alarm's native unit
func intervalFromResolution(resolution time.Duration) (Micros, error) {
	us := resolution / time.Microsecond
	if us < 1 {
		return 0, ErrResolutionTooFine
	}
	if us > math.MaxUint32 {
		return 0, ErrResolutionTooCoarse
	}
	return Micros(us), nil
}

// timeoutMicros converts a timeout to microseconds, rounding up so a delay
// never ends early. Negative timeouts count as zero.
func timeoutMicros(timeout time.Duration) uint64 {
	if timeout <= 0 {
		return 0
	}
	us := uint64(timeout / time.Microsecond)
	if timeout%time.Microsecond != 0 {
		us++
	}
	return us
}

// Schedule creates a delay that completes once timeout has elapsed.
// The delay owns a wake slot until Close; callers should defer d.Close().
func (s Scheduler) Schedule(timeout time.Duration) (*Delay, error) {
	us := timeoutMicros(timeout)

	sh, state := lockShared()
	clock := sh.clock
	now := clock.Now()
	if us > math.MaxUint64-uint64(now) {
		restoreInterrupts(state)
		return nil, ErrDeadlineOverflow
	}
	deadline := now + Instant(us)

	index, err := pool.Allocate()
	if err != nil {
		stats.Exhausted++
		restoreInterrupts(state)
		return nil, err
	}
	notePeak()
	restoreInterrupts(state)

	return &Delay{deadline: deadline, clock: clock, slot: index}, nil
}

// MustSchedule is like Schedule but panics on error
func (s Scheduler) MustSchedule(timeout time.Duration) *Delay {
	d, err := s.Schedule(timeout)
	if err != nil {
		panic(err)
	}
	return d
}

// Sleep blocks the calling goroutine for timeout or until ctx is done
func (s Scheduler) Sleep(ctx context.Context, timeout time.Duration) error {
	d, err := s.Schedule(timeout)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Wait(ctx)
}

// Now returns the current monotonic time
func (s Scheduler) Now() Instant {
	sh, state := lockShared()
	clock := sh.clock
	restoreInterrupts(state)
	return clock.Now()
}
