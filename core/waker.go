package core

import "sync/atomic"

// Waker resumes a suspended task. Wake is called from interrupt context with
// the interrupt mask held: it must not block and must not call back into the
// scheduler (Schedule, Poll, Close), or the exclusion domain deadlocks.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to the Waker interface
type WakerFunc func()

// Wake calls f
func (f WakerFunc) Wake() {
	f()
}

// Flag is an interrupt-safe waker for polling loops. The IRQ side sets it,
// the task loop consumes it with Take.
type Flag struct {
	set atomic.Uint32
}

// Wake marks the flag
func (f *Flag) Wake() {
	f.set.Store(1)
}

// Take reports whether the flag was set and clears it
func (f *Flag) Take() bool {
	return f.set.Swap(0) != 0
}

// Signal is a channel waker for goroutine-based callers.
// Wake never blocks; wakes that arrive while one is pending coalesce.
type Signal chan struct{}

// NewSignal creates a Signal with room for one pending wake
func NewSignal() Signal {
	return make(Signal, 1)
}

// Wake posts a wake if none is pending
func (s Signal) Wake() {
	select {
	case s <- struct{}{}:
	default:
	}
}
