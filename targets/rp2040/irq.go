//go:build rp2040

package main

// TIMER alarm IRQ numbers on the RP2040 NVIC
const (
	timerIRQ0 = 0
	timerIRQ1 = 1
	timerIRQ2 = 2
	timerIRQ3 = 3
)
