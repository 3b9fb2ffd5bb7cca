//go:build rp2040

package main

import (
	"errors"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"picodelay/core"
)

// RP2040 TIMER peripheral memory map
const (
	timerBase     = 0x40054000
	timerALARM0   = timerBase + 0x10 // ALARM0..3 are consecutive words
	timerARMED    = timerBase + 0x20
	timerTIMERAWH = timerBase + 0x24 // Raw timer high word (no latching)
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word (no latching)
	timerINTR     = timerBase + 0x34 // Raw interrupts, write 1 to clear
	timerINTE     = timerBase + 0x38 // Interrupt enable
	timerINTF     = timerBase + 0x3C // Interrupt force
)

var (
	timerArmed = (*volatile.Register32)(unsafe.Pointer(uintptr(timerARMED)))
	timerRawH  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRawL  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
	timerIntR  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	timerIntE  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))
	timerIntF  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTF)))
)

var errZeroInterval = errors.New("rp2040: alarm interval must be at least 1us")

// hardwareClock reads the 64-bit 1MHz TIMER counter
type hardwareClock struct{}

// Now returns microseconds since reset
func (hardwareClock) Now() core.Instant {
	// Read high, low, then high again to detect a carry between the reads
	for {
		high1 := timerRawH.Get()
		low := timerRawL.Get()
		high2 := timerRawH.Get()
		if high1 == high2 {
			return core.Instant(uint64(high1)<<32 | uint64(low))
		}
	}
}

// hardwareAlarm drives one of the four TIMER alarms. The alarm index and its
// IRQ come from the alarmN build tag.
type hardwareAlarm struct {
	index uint8
	mask  uint32
	reg   *volatile.Register32
	irq   interrupt.Interrupt
}

func newHardwareAlarm() *hardwareAlarm {
	return &hardwareAlarm{
		index: alarmIndex,
		mask:  1 << alarmIndex,
		reg:   (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM0 + 4*alarmIndex))),
		irq:   alarmInterrupt(),
	}
}

// Schedule arms the alarm to fire interval microseconds from now.
// Writing the ALARM register arms it; the comparator only matches the low
// 32 bits, so a target that passed before the write landed is forced.
func (a *hardwareAlarm) Schedule(interval core.Micros) error {
	if interval == 0 {
		return errZeroInterval
	}
	target := timerRawL.Get() + uint32(interval)
	a.reg.Set(target)
	if int32(timerRawL.Get()-target) >= 0 && timerArmed.HasBits(a.mask) {
		timerIntF.SetBits(a.mask)
	}
	return nil
}

// ClearInterrupt acknowledges the alarm interrupt
func (a *hardwareAlarm) ClearInterrupt() {
	timerIntF.ClearBits(a.mask)
	timerIntR.Set(a.mask)
}

// EnableInterrupt enables the alarm interrupt in TIMER and at the NVIC
func (a *hardwareAlarm) EnableInterrupt() {
	timerIntE.SetBits(a.mask)
	a.irq.Enable()
}

// handleTimerIRQ services the scheduler's alarm
func handleTimerIRQ(interrupt.Interrupt) {
	core.HandleAlarm()
}
