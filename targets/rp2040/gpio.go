//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"stopwatch/core"
)

var errPinNotInput = errors.New("interrupt pin not configured as input")

// RPGPIODriver implements core.GPIODriver on the RP2040/RP2350 GPIO bank
type RPGPIODriver struct {
	// Track configured pins to prevent conflicts
	configuredPins map[core.GPIOPin]machine.Pin
	inputs         map[core.GPIOPin]bool
}

// NewRPGPIODriver creates a new GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
		inputs:         make(map[core.GPIOPin]bool),
	}
}

// ConfigureInputPullUp configures a pin as an input with the pull-up enabled
func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}

	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	d.configuredPins[pin] = machinePin
	d.inputs[pin] = true
	return nil
}

// ConfigureOutput configures a pin as a digital output, driven low
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}

	machinePin := machine.Pin(pin)
	machinePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	machinePin.Low()

	d.configuredPins[pin] = machinePin
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		// Pin isn't configured - configure it first
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		machinePin = d.configuredPins[pin]
	}

	machinePin.Set(value)
	return nil
}

// ReadPin reads the current pin state; unconfigured pins read low
func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	machinePin, exists := d.configuredPins[pin]
	if !exists {
		return false
	}
	return machinePin.Get()
}

// SetInterrupt attaches an edge interrupt to a configured input. The
// callback runs in interrupt context.
func (d *RPGPIODriver) SetInterrupt(cp core.ControlPin, callback func(machine.Pin)) error {
	if !d.inputs[cp.Pin] {
		return errPinNotInput
	}

	change := machine.PinFalling
	if cp.Edge == core.EdgeRising {
		change = machine.PinRising
	}
	return d.configuredPins[cp.Pin].SetInterrupt(change, callback)
}
