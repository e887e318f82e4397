//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts so the tick and control handlers cannot
// preempt the caller. Returns the previous mask for restoreInterrupts.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt mask
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}

// InInterrupt reports whether the caller runs in interrupt context
func InInterrupt() bool {
	return interrupt.In()
}
