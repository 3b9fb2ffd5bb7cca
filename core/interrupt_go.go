//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// masked stands in for the interrupt mask on regular Go. Simulated alarm
// handlers running on other goroutines take the same lock, so host builds
// see the same single non-reentrant exclusion domain as the MCU.
var masked sync.Mutex

// disableInterrupts enters the exclusion domain
func disableInterrupts() State {
	masked.Lock()
	return 0
}

// restoreInterrupts leaves the exclusion domain
func restoreInterrupts(state State) {
	masked.Unlock()
}
