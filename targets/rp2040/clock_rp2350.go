//go:build rp2350

package main

// RP2350 TIMER0 raw (unlatched) counter low word.
// TIMER0 lives at a different address than the RP2040 TIMER.
const (
	timerBase     = 0x400B0000
	timerRawLAddr = timerBase + 0x28
)

const mcuName = "rp2350"
