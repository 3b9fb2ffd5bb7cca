//go:build rp2040 && alarm0

package main

import "runtime/interrupt"

// TinyGo's runtime sleeps on alarm 0 and owns TIMER_IRQ_0, so this binding
// only links on targets whose runtime uses another timer.
//
// alarmIndex selects TIMER alarm 0. Enabling two alarmN tags redeclares it.
const alarmIndex = 0

func alarmInterrupt() interrupt.Interrupt {
	return interrupt.New(timerIRQ0, handleTimerIRQ)
}
