// Package sim runs the delay scheduler against a virtual timer so scenarios
// can be replayed on the host in discrete time.
package sim

import (
	"errors"

	"picodelay/core"
)

// ErrAlarmIdle is returned by Step when no alarm is armed and enabled
var ErrAlarmIdle = errors.New("sim: alarm is not armed")

// Alarm is a virtual one-shot alarm with the same contract as the hardware
// timer alarms. It is driven by a Machine and is not safe for concurrent use.
type Alarm struct {
	clock   *core.SoftClock
	due     core.Instant
	armed   bool
	enabled bool
	fail    error

	Arms   int // successful Schedule calls
	Clears int // ClearInterrupt calls
}

// Schedule arms the alarm to fire interval microseconds from now
func (a *Alarm) Schedule(interval core.Micros) error {
	if a.fail != nil {
		err := a.fail
		a.fail = nil
		return err
	}
	a.due = a.clock.Now() + core.Instant(interval)
	a.armed = true
	a.Arms++
	return nil
}

// ClearInterrupt acknowledges an expiry
func (a *Alarm) ClearInterrupt() {
	a.Clears++
}

// EnableInterrupt lets expiries reach the handler
func (a *Alarm) EnableInterrupt() {
	a.enabled = true
}

// FailNext makes the next Schedule call return err
func (a *Alarm) FailNext(err error) {
	a.fail = err
}

// Due returns the next expiry and whether the alarm will fire
func (a *Alarm) Due() (core.Instant, bool) {
	return a.due, a.armed && a.enabled
}

// Machine couples a soft clock with a virtual alarm. Moving time forward
// runs core.HandleAlarm at every alarm expiry, as the IRQ would.
type Machine struct {
	Clock *core.SoftClock
	Alarm *Alarm
}

// NewMachine creates a machine at time zero
func NewMachine() *Machine {
	clock := &core.SoftClock{}
	return &Machine{
		Clock: clock,
		Alarm: &Alarm{clock: clock},
	}
}

// Now returns the machine time
func (m *Machine) Now() core.Instant {
	return m.Clock.Now()
}

// Step jumps to the next alarm expiry and runs the interrupt handler
func (m *Machine) Step() (core.Instant, error) {
	due, ok := m.Alarm.Due()
	if !ok {
		return m.Now(), ErrAlarmIdle
	}
	if due > m.Now() {
		m.Clock.Set(due)
	}
	m.Alarm.armed = false
	core.HandleAlarm()
	return m.Now(), nil
}

// AdvanceTo moves time forward to t, firing every alarm due on the way.
// It returns the number of interrupts handled.
func (m *Machine) AdvanceTo(t core.Instant) int {
	fired := 0
	for {
		due, ok := m.Alarm.Due()
		if !ok || due > t {
			break
		}
		if _, err := m.Step(); err != nil {
			break
		}
		fired++
	}
	if m.Now() < t {
		m.Clock.Set(t)
	}
	return fired
}
