//go:build rp2040 && alarm3

package main

import "runtime/interrupt"

// alarmIndex selects TIMER alarm 3. Enabling two alarmN tags redeclares it.
const alarmIndex = 3

func alarmInterrupt() interrupt.Interrupt {
	return interrupt.New(timerIRQ3, handleTimerIRQ)
}
