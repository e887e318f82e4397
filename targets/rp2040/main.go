//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"stopwatch/core"
)

// Board wiring. The edge-triggered inputs keep the polarity of the
// classic wiring: reset and resume on a falling edge, pause on a rising one.
var pins = core.PinMap{
	Reset:  core.ControlPin{Pin: 2, Edge: core.EdgeFalling, PullUp: true},
	Pause:  core.ControlPin{Pin: 3, Edge: core.EdgeRising, PullUp: true},
	Resume: core.ControlPin{Pin: 4, Edge: core.EdgeFalling, PullUp: true},
	Controls: [core.NumControls]core.GPIOPin{
		core.HoursUp:     6,
		core.HoursDown:   7,
		core.MinutesUp:   8,
		core.MinutesDown: 9,
		core.SecondsUp:   10,
		core.SecondsDown: 11,
		core.ModeToggle:  12,
	},
	CountUpLED:   13,
	CountDownLED: 14,
	Buzzer:       15,
}

// MAX7219 on SPI0: SCK GPIO18, MOSI GPIO19, LOAD GPIO17
const (
	displayCS        = machine.GPIO17
	displayIntensity = 8
)

var (
	sw       *core.Stopwatch
	display  *LEDDisplay
	loopErrs uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitDebugUART()
	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(true)

	gpioDriver := NewRPGPIODriver()
	core.SetGPIODriver(gpioDriver)
	if err := pins.ConfigurePins(); err != nil {
		halt("pin setup failed: " + err.Error())
	}

	if err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 1000000,
		SCK:       machine.GPIO18,
		SDO:       machine.GPIO19,
		SDI:       machine.GPIO16,
	}); err != nil {
		halt("spi setup failed: " + err.Error())
	}
	displayCS.Configure(machine.PinConfig{Mode: machine.PinOutput})

	display = NewLEDDisplay(machine.SPI0, displayCS, displayIntensity)

	var err error
	sw, err = core.NewStopwatch(core.DefaultSettings(), core.Board{
		Display:  display,
		Outputs:  NewBoardOutputs(&pins),
		Controls: core.GPIOControls{Pins: &pins},
	})
	if err != nil {
		halt("stopwatch setup failed: " + err.Error())
	}

	attach := func(cp core.ControlPin, e core.Event) {
		err := gpioDriver.SetInterrupt(cp, func(machine.Pin) {
			sw.Signal(e, GetHardwareTime())
		})
		if err != nil {
			halt("interrupt setup failed for " + e.String() + ": " + err.Error())
		}
	}
	attach(pins.Reset, core.EventReset)
	attach(pins.Pause, core.EventPause)
	attach(pins.Resume, core.EventResume)

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopErrs++
					core.DumpEventRing()
				}
			}()

			sw.Step(GetHardwareTime())
		}()

		// Yield to other goroutines
		time.Sleep(100 * time.Microsecond)
	}
}

// halt reports a fatal setup error and blinks the on-board LED forever
func halt(msg string) {
	DebugPrintln("[STOPWATCH] " + msg)
	if display != nil {
		display.Blank()
	}

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(150 * time.Millisecond)
		led.Low()
		time.Sleep(850 * time.Millisecond)
	}
}
