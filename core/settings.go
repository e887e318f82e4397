package core

import "errors"

// ErrSettings is returned when a foreground period is zero
var ErrSettings = errors.New("settings: poll, render and repeat intervals must be non-zero")

// Settings holds the timing parameters of a stopwatch. Intervals are in
// microseconds and converted to timer clock cycles at construction.
type Settings struct {
	Timer TimerConfig

	PollIntervalUS   uint32 // Adjustment control polling period
	RenderIntervalUS uint32 // Display render period
	DebounceUS       uint32 // Adjustment control debounce
	RepeatDelayUS    uint32 // Hold time before auto-repeat starts
	RepeatIntervalUS uint32 // Auto-repeat period
	EdgeLockoutUS    uint32 // Reset/pause/resume lockout after an accepted edge
}

// DefaultSettings returns settings for a 1MHz free-running timer
func DefaultSettings() Settings {
	return Settings{
		Timer:            MicrosecondTimer,
		PollIntervalUS:   10000,
		RenderIntervalUS: 20000,
		DebounceUS:       20000,
		RepeatDelayUS:    500000,
		RepeatIntervalUS: 150000,
		EdgeLockoutUS:    50000,
	}
}

// Validate checks the timer arithmetic and the foreground periods
func (s Settings) Validate() error {
	if err := s.Timer.Validate(); err != nil {
		return err
	}
	if s.Timer.CyclesFromUS(s.PollIntervalUS) == 0 ||
		s.Timer.CyclesFromUS(s.RenderIntervalUS) == 0 ||
		s.Timer.CyclesFromUS(s.RepeatIntervalUS) == 0 {
		return ErrSettings
	}
	return nil
}
