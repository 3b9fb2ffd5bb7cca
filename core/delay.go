package core

import "context"

type delayState uint8

const (
	delayUnregistered delayState = iota
	delayPending
	delayCompleted
	delayClosed
)

// Delay is a pending timeout that owns one wake slot.
//
// A task polls it until it reports ready, then closes it. Closing before
// completion cancels the delay. Either way Close must run exactly once per
// Delay, usually via defer, to hand the slot back to the pool.
type Delay struct {
	deadline Instant
	clock    Clock
	slot     int
	state    delayState
}

// Poll reports whether the deadline has passed. If not, it registers w to be
// woken by the first alarm sweep at or after the deadline. Only the most
// recent waker is kept.
func (d *Delay) Poll(w Waker) bool {
	switch d.state {
	case delayClosed:
		panic("core: poll of closed delay")
	case delayCompleted:
		return true
	}

	if d.clock.Now() >= d.deadline {
		d.state = delayCompleted
		return true
	}

	if w == nil {
		panic("core: poll with nil waker")
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)
	if err := pool.Register(d.slot, w, d.deadline); err != nil {
		panic(err)
	}
	d.state = delayPending
	return false
}

// Close releases the wake slot. Closing twice is a no-op.
func (d *Delay) Close() {
	if d.state == delayClosed {
		return
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)
	if err := pool.Release(d.slot); err != nil {
		panic(err)
	}
	d.state = delayClosed
}

// Wait blocks the calling goroutine until the delay completes or ctx is done.
// It does not close the delay.
func (d *Delay) Wait(ctx context.Context) error {
	sig := NewSignal()
	for !d.Poll(sig) {
		select {
		case <-sig:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Deadline returns the instant at which the delay completes
func (d *Delay) Deadline() Instant {
	return d.deadline
}

// SlotIndex returns the index of the owned wake slot
func (d *Delay) SlotIndex() int {
	return d.slot
}

// Done reports whether a previous Poll observed the deadline
func (d *Delay) Done() bool {
	return d.state == delayCompleted
}
