//go:build rp2040 && alarm2

package main

import "runtime/interrupt"

// alarmIndex selects TIMER alarm 2. Enabling two alarmN tags redeclares it.
const alarmIndex = 2

func alarmInterrupt() interrupt.Interrupt {
	return interrupt.New(timerIRQ2, handleTimerIRQ)
}
