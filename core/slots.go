package core

// SlotState is the lifecycle state of a wake slot
type SlotState uint8

const (
	SlotEmpty    SlotState = iota // available for allocation
	SlotReserved                  // owned by a delay that has not suspended yet
	SlotPending                   // owned by a suspended delay waiting for its deadline
)

// String returns the state name
func (s SlotState) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotReserved:
		return "reserved"
	case SlotPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Slot is one wake entry. The zero value is an empty slot.
type Slot struct {
	state    SlotState
	deadline Instant
	waker    Waker
}

// State returns the slot state
func (s *Slot) State() SlotState {
	return s.state
}

// Deadline returns the registered deadline (only meaningful while pending)
func (s *Slot) Deadline() Instant {
	return s.deadline
}

// reset returns the slot to empty and drops the waker reference
func (s *Slot) reset() {
	*s = Slot{}
}

// Pool is a fixed-capacity set of wake slots over caller-provided storage.
// None of its methods lock: callers hold the interrupt mask.
type Pool struct {
	slots []Slot
}

// NewPool wraps storage as a pool. The storage is never resized.
func NewPool(storage []Slot) Pool {
	return Pool{slots: storage}
}

// Len returns the pool capacity
func (p *Pool) Len() int {
	return len(p.slots)
}

// Allocate reserves the first empty slot in index order and returns its index
func (p *Pool) Allocate() (int, error) {
	for i := range p.slots {
		if p.slots[i].state == SlotEmpty {
			p.slots[i].state = SlotReserved
			return i, nil
		}
	}
	return -1, ErrPoolExhausted
}

// Slot grants access to one slot for inspection or mutation
func (p *Pool) Slot(index int) (*Slot, error) {
	if index < 0 || index >= len(p.slots) {
		return nil, ErrInvalidIndex
	}
	return &p.slots[index], nil
}

// Range calls fn for every slot in ascending index order
func (p *Pool) Range(fn func(index int, s *Slot)) {
	for i := range p.slots {
		fn(i, &p.slots[i])
	}
}

// Register marks a slot pending, replacing any previous waker
func (p *Pool) Register(index int, w Waker, deadline Instant) error {
	s, err := p.Slot(index)
	if err != nil {
		return err
	}
	s.state = SlotPending
	s.waker = w
	s.deadline = deadline
	return nil
}

// Release returns a slot to empty
func (p *Pool) Release(index int) error {
	s, err := p.Slot(index)
	if err != nil {
		return err
	}
	s.reset()
	return nil
}

// WakeExpired wakes every pending slot whose deadline is at or before now.
// Slots stay pending; their owners release them. Returns the number woken.
func (p *Pool) WakeExpired(now Instant) int {
	woken := 0
	for i := range p.slots {
		s := &p.slots[i]
		if s.state == SlotPending && s.deadline <= now {
			s.waker.Wake()
			woken++
		}
	}
	return woken
}

// Live returns the number of non-empty slots
func (p *Pool) Live() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].state != SlotEmpty {
			n++
		}
	}
	return n
}
