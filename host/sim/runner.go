package sim

import (
	"context"
	"time"

	"stopwatch/core"
	"stopwatch/internal/logger"
)

// DefaultHoldUS is how long a key keeps an adjustment control pressed
const DefaultHoldUS = 100000

// Clock returns the free-running timer count in input clock cycles
type Clock interface {
	Now() uint32
}

// WallClock derives timer cycles from the host clock, optionally running
// faster than real time. The count wraps like a hardware counter.
type WallClock struct {
	start time.Time
	hz    uint64
	speed uint64
}

// NewWallClock starts a clock for cfg running speed times real time
func NewWallClock(cfg core.TimerConfig, speed uint32) *WallClock {
	if speed == 0 {
		speed = 1
	}
	return &WallClock{start: time.Now(), hz: uint64(cfg.ClockHz), speed: uint64(speed)}
}

// Now implements Clock
func (c *WallClock) Now() uint32 {
	ns := uint64(time.Since(c.start).Nanoseconds()) * c.speed
	secs, rem := ns/uint64(time.Second), ns%uint64(time.Second)
	return uint32(secs*c.hz + rem*c.hz/uint64(time.Second))
}

// Runner drives a stopwatch from a clock and keyboard input. Keys pulse the
// edge-triggered inputs or hold an adjustment control low on the sim GPIO
// bank, so every action goes through the same path as on hardware.
type Runner struct {
	sw    *core.Stopwatch
	gpio  *SimGPIO
	pins  core.PinMap
	clock Clock
	hold  uint32

	pressed [core.NumControls]bool
	release [core.NumControls]uint32
}

// NewRunner wires the reset/pause/resume pins to the stopwatch. The GPIO
// bank must be the registered driver with the pin map configured.
func NewRunner(sw *core.Stopwatch, gpio *SimGPIO, pins core.PinMap, clock Clock, holdUS uint32) (*Runner, error) {
	r := &Runner{
		sw:    sw,
		gpio:  gpio,
		pins:  pins,
		clock: clock,
		hold:  sw.Settings().Timer.CyclesFromUS(holdUS),
	}

	inputs := []struct {
		cp core.ControlPin
		e  core.Event
	}{
		{pins.Reset, core.EventReset},
		{pins.Pause, core.EventPause},
		{pins.Resume, core.EventResume},
	}
	for _, in := range inputs {
		e := in.e
		if err := gpio.SetInterrupt(in.cp.Pin, in.cp.Edge, func(core.GPIOPin) {
			sw.Signal(e, clock.Now())
		}); err != nil {
			return nil, err
		}
	}

	return r, nil
}

var keyControls = map[byte]core.Control{
	'H': core.HoursUp,
	'h': core.HoursDown,
	'M': core.MinutesUp,
	'n': core.MinutesDown,
	'S': core.SecondsUp,
	's': core.SecondsDown,
	'm': core.ModeToggle,
}

// HandleKey applies one key press. Returns true for quit.
func (r *Runner) HandleKey(key byte) bool {
	switch key {
	case 'q', 'Q':
		return true
	case 'r', 'R':
		r.gpio.Pulse(r.pins.Reset.Pin)
	case 'p', 'P':
		r.gpio.Pulse(r.pins.Pause.Pin)
	case 'c', 'C':
		r.gpio.Pulse(r.pins.Resume.Pin)
	default:
		if c, ok := keyControls[key]; ok {
			r.press(c, r.clock.Now())
		}
	}
	return false
}

// press holds a control low; a repeated key extends the hold
func (r *Runner) press(c core.Control, now uint32) {
	r.gpio.Drive(r.pins.Controls[c], false)
	r.pressed[c] = true
	r.release[c] = now + r.hold
}

// Step releases expired controls and runs one stopwatch pass
func (r *Runner) Step(now uint32) {
	for c := range r.pressed {
		if r.pressed[c] && int32(now-r.release[c]) >= 0 {
			r.gpio.Drive(r.pins.Controls[c], true)
			r.pressed[c] = false
		}
	}
	r.sw.Step(now)
}

// Run steps the stopwatch every millisecond and applies keys until ctx is
// done or quit is pressed.
func (r *Runner) Run(ctx context.Context, keys <-chan byte) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if r.HandleKey(key) {
				logger.Infof(ctx, "quit")
				return nil
			}
		case <-ticker.C:
			r.Step(r.clock.Now())
		}
	}
}
