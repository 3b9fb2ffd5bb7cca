package core

// DefaultSlotCount is the pool capacity used unless SetupSlots injects storage
const DefaultSlotCount = 16

// sharedState is the scheduler state shared with the alarm interrupt
type sharedState struct {
	alarm    Alarm
	clock    Clock
	interval Micros
}

// Stats are scheduler counters for diagnostics
type Stats struct {
	Sweeps    uint32 // alarm interrupts handled since Init
	Wakes     uint32 // wakers invoked across all sweeps
	Exhausted uint32 // Schedule calls rejected with ErrPoolExhausted
	Live      int    // slots currently owned by a delay
	Peak      int    // highest Live seen since Init or SetupSlots
	Capacity  int    // pool length
}

var (
	defaultSlots [DefaultSlotCount]Slot

	// Everything below is guarded by the interrupt mask
	pool   = NewPool(defaultSlots[:])
	shared *sharedState
	stats  Stats
)

// lockShared enters the exclusion domain and returns the scheduler state.
// The caller must restoreInterrupts(state) when done.
func lockShared() (*sharedState, State) {
	state := disableInterrupts()
	if shared == nil {
		restoreInterrupts(state)
		panic(ErrNotInitialized)
	}
	return shared, state
}

// SetupSlots replaces the pool storage, typically with a package-level array
// sized for the application:
//
//	var wakeSlots [8]core.Slot
//	core.SetupSlots(wakeSlots[:])
//
// Call it before Init. It panics if storage is empty or a delay is still live.
func SetupSlots(storage []Slot) {
	if len(storage) == 0 {
		panic("core: wake slot storage is empty")
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	if pool.Live() != 0 {
		panic("core: SetupSlots called with live delays")
	}
	for i := range storage {
		storage[i].reset()
	}
	pool = NewPool(storage)
	stats.Peak = 0
}

// ReadStats returns a snapshot of the scheduler counters
func ReadStats() Stats {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s := stats
	s.Live = pool.Live()
	s.Capacity = pool.Len()
	return s
}

// notePeak records the live slot high-water mark. Interrupt mask held.
func notePeak() {
	if live := pool.Live(); live > stats.Peak {
		stats.Peak = live
	}
}
