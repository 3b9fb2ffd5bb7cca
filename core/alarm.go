package core

import "fmt"

// HandleAlarm is the periodic alarm interrupt handler. Target code calls it
// from the IRQ bound to the scheduler's alarm.
//
// It rearms the alarm before sweeping so a slow sweep cannot drop a tick,
// then wakes every pending delay whose deadline is at or before a single
// time snapshot. A rearm failure panics: with the alarm stopped no delay
// would ever wake again.
func HandleAlarm() {
	s, state := lockShared()
	defer restoreInterrupts(state)

	s.alarm.ClearInterrupt()
	if err := s.alarm.Schedule(s.interval); err != nil {
		panic(fmt.Errorf("%w: %w", ErrAlarm, err))
	}

	now := s.clock.Now()
	woken := pool.WakeExpired(now)

	stats.Sweeps++
	stats.Wakes += uint32(woken)
}

// Interval returns the configured sweep interval
func Interval() Micros {
	s, state := lockShared()
	defer restoreInterrupts(state)
	return s.interval
}
