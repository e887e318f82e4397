//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// hostLock stands in for the interrupt mask on regular Go, where control
// events arrive from other goroutines instead of interrupt handlers.
// Critical sections must not nest.
var hostLock sync.Mutex

// disableInterrupts enters the critical section
func disableInterrupts() State {
	hostLock.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	hostLock.Unlock()
}

// InInterrupt is always false on regular Go
func InInterrupt() bool {
	return false
}
