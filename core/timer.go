package core

import "errors"

// TickHz is the only supported tick rate
const TickHz = 1

var (
	// ErrTimerConfig is returned for a timer configuration with a zero field
	ErrTimerConfig = errors.New("timer config: clock, prescaler and compare must be non-zero")

	// ErrTimerPeriod is returned when clock / prescaler / compare is not exactly 1 Hz
	ErrTimerPeriod = errors.New("timer config: period is not exactly one second")
)

// TimerConfig describes a compare-match timer: the input clock is divided by
// the prescaler and the counter is cleared every Compare counts, producing one
// tick per match.
type TimerConfig struct {
	ClockHz   uint32 // Timer input clock
	Prescaler uint32 // Clock division factor
	Compare   uint32 // Counts per tick
}

// AVRTimer1 is Timer1 in CTC mode on a 16MHz AVR:
// 16MHz / 1024 = 15625 counts per second
var AVRTimer1 = TimerConfig{
	ClockHz:   16000000,
	Prescaler: 1024,
	Compare:   15625,
}

// MicrosecondTimer is a free-running 1MHz counter (RP2040 timer, host clock)
var MicrosecondTimer = TimerConfig{
	ClockHz:   1000000,
	Prescaler: 1,
	Compare:   1000000,
}

// Validate checks that the configuration produces exactly TickHz with no
// remainder. A drifting clock is a configuration error, not a runtime one.
func (c TimerConfig) Validate() error {
	if c.ClockHz == 0 || c.Prescaler == 0 || c.Compare == 0 {
		return ErrTimerConfig
	}
	if c.ClockHz%c.Prescaler != 0 {
		return ErrTimerPeriod
	}
	counts := c.ClockHz / c.Prescaler
	if counts%c.Compare != 0 || counts/c.Compare != TickHz {
		return ErrTimerPeriod
	}
	return nil
}

// CyclesPerTick returns the number of input clock cycles in one tick
func (c TimerConfig) CyclesPerTick() uint64 {
	return uint64(c.Prescaler) * uint64(c.Compare)
}

// CyclesFromUS converts microseconds to input clock cycles
func (c TimerConfig) CyclesFromUS(us uint32) uint32 {
	return uint32((uint64(us) * uint64(c.ClockHz)) / 1000000)
}

// CyclesToUS converts input clock cycles to microseconds
func (c TimerConfig) CyclesToUS(cycles uint32) uint32 {
	return uint32((uint64(cycles) * 1000000) / uint64(c.ClockHz))
}

// Describe renders the period arithmetic, e.g. "16000000 / 1024 / 15625"
func (c TimerConfig) Describe() string {
	return utoa(c.ClockHz) + " / " + utoa(c.Prescaler) + " / " + utoa(c.Compare)
}
