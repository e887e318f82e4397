//go:build rp2040

package main

// RP2040 TIMER raw (unlatched) counter low word
const (
	timerBase     = 0x40054000
	timerRawLAddr = timerBase + 0x28
)

const mcuName = "rp2040"
