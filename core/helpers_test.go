package core

import (
	"testing"
	"time"
)

// fakeAlarm records what the scheduler does to the alarm peripheral
type fakeAlarm struct {
	armed   []Micros
	clears  int
	enables int
	fail    error
}

func (a *fakeAlarm) Schedule(interval Micros) error {
	if a.fail != nil {
		return a.fail
	}
	a.armed = append(a.armed, interval)
	return nil
}

func (a *fakeAlarm) ClearInterrupt() {
	a.clears++
}

func (a *fakeAlarm) EnableInterrupt() {
	a.enables++
}

// countWaker counts how often it was woken
type countWaker struct {
	n int
}

func (w *countWaker) Wake() {
	w.n++
}

// countingClock counts Now calls
type countingClock struct {
	SoftClock
	calls int
}

func (c *countingClock) Now() Instant {
	c.calls++
	return c.SoftClock.Now()
}

// resetScheduler returns all package state to its boot values
func resetScheduler() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range defaultSlots {
		defaultSlots[i] = Slot{}
	}
	pool = NewPool(defaultSlots[:])
	shared = nil
	stats = Stats{}
}

// setupScheduler initializes a scheduler over a fake alarm and a soft clock.
// A non-zero capacity injects slot storage of that size.
func setupScheduler(t *testing.T, capacity int, resolution time.Duration) (Scheduler, *fakeAlarm, *SoftClock) {
	t.Helper()
	resetScheduler()
	t.Cleanup(resetScheduler)

	if capacity > 0 {
		SetupSlots(make([]Slot, capacity))
	}

	alarm := &fakeAlarm{}
	clock := &SoftClock{}
	s, err := Init(alarm, clock, resolution)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s, alarm, clock
}

// slotState reads a slot state through the exclusion domain
func slotState(t *testing.T, index int) SlotState {
	t.Helper()
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s, err := pool.Slot(index)
	if err != nil {
		t.Fatalf("Slot(%d) failed: %v", index, err)
	}
	return s.State()
}

// mustPanic runs fn and returns the recovered panic value
func mustPanic(t *testing.T, fn func()) (r any) {
	t.Helper()
	defer func() {
		r = recover()
		if r == nil {
			t.Fatal("Expected panic, got none")
		}
	}()
	fn()
	return nil
}
