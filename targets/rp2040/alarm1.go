//go:build rp2040 && alarm1

package main

import "runtime/interrupt"

// alarmIndex selects TIMER alarm 1. Enabling two alarmN tags redeclares it.
const alarmIndex = 1

func alarmInterrupt() interrupt.Interrupt {
	return interrupt.New(timerIRQ1, handleTimerIRQ)
}
