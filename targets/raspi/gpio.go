//go:build linux

package main

import (
	"github.com/stianeikeland/go-rpio/v4"

	"stopwatch/core"
)

// RPIOGPIODriver implements core.GPIODriver on the Raspberry Pi GPIO bank
// through /dev/gpiomem. Pins use BCM numbering.
type RPIOGPIODriver struct {
	watched []watchedPin
}

type watchedPin struct {
	pin   rpio.Pin
	event core.Event
}

// ConfigureOutput configures a pin as a digital output, driven low
func (d *RPIOGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	p := rpio.Pin(pin)
	p.Output()
	p.Low()
	return nil
}

// ConfigureInputPullUp configures a pin as an input with the pull-up enabled
func (d *RPIOGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	p := rpio.Pin(pin)
	p.Input()
	p.PullUp()
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPIOGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if value {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}
	return nil
}

// ReadPin reads the current pin state
func (d *RPIOGPIODriver) ReadPin(pin core.GPIOPin) bool {
	return rpio.Pin(pin).Read() == rpio.High
}

// Watch arms hardware edge detection on a control input
func (d *RPIOGPIODriver) Watch(cp core.ControlPin, e core.Event) {
	p := rpio.Pin(cp.Pin)
	if cp.Edge == core.EdgeRising {
		p.Detect(rpio.RiseEdge)
	} else {
		p.Detect(rpio.FallEdge)
	}
	d.watched = append(d.watched, watchedPin{pin: p, event: e})
}

// PollEdges reports every latched edge to signal and clears it
func (d *RPIOGPIODriver) PollEdges(signal func(core.Event)) {
	for _, w := range d.watched {
		if w.pin.EdgeDetected() {
			signal(w.event)
		}
	}
}

// Release disarms edge detection
func (d *RPIOGPIODriver) Release() {
	for _, w := range d.watched {
		w.pin.Detect(rpio.NoEdge)
	}
	d.watched = nil
}
