//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"unsafe"
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerRawLAddr)))

// GetHardwareTime reads the low 32 bits of the 1MHz microsecond timer.
// This is the free-running clock handed to Stopwatch.Step and Signal.
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}
