//go:build rp2040 || rp2350

package main

import (
	"machine"

	"tinygo.org/x/drivers/buzzer"

	"stopwatch/core"
)

// BoardOutputs drives the mode LEDs through the GPIO driver and the alarm
// through an active buzzer
type BoardOutputs struct {
	pins   *core.PinMap
	buzzer buzzer.Device
}

// NewBoardOutputs sets up the buzzer pin. The LED pins are configured by
// PinMap.ConfigurePins.
func NewBoardOutputs(pins *core.PinMap) *BoardOutputs {
	pin := machine.Pin(pins.Buzzer)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &BoardOutputs{pins: pins, buzzer: buzzer.New(pin)}
}

// ApplyOutputs implements core.OutputSink
func (o *BoardOutputs) ApplyOutputs(out core.Outputs) error {
	gpio := core.MustGPIO()
	if err := gpio.SetPin(o.pins.CountUpLED, out.CountUpLED); err != nil {
		return err
	}
	if err := gpio.SetPin(o.pins.CountDownLED, out.CountDownLED); err != nil {
		return err
	}
	if out.Buzzer {
		return o.buzzer.On()
	}
	return o.buzzer.Off()
}
