package core

import "errors"

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// ReadPin reads the current pin state
	ReadPin(pin GPIOPin) bool
}

// Display is the render sink. It is handed a full copy of the register once
// per render pass and owns its own multiplexing and output timing.
type Display interface {
	Render(s Snapshot) error
}

// OutputSink drives the mode LEDs and the buzzer
type OutputSink interface {
	ApplyOutputs(out Outputs) error
}

var (
	ErrNoGPIO    = errors.New("GPIO driver not configured")
	ErrNoDisplay = errors.New("display not configured")
)

// Global singleton used by core code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic(ErrNoGPIO.Error())
	}
	return gpioDriver
}

// Edge selects the transition an edge-triggered input fires on
type Edge uint8

const (
	EdgeFalling Edge = iota
	EdgeRising
)

// ControlPin is an edge-triggered control input
type ControlPin struct {
	Pin    GPIOPin
	Edge   Edge
	PullUp bool
}

// PinMap assigns every input and output of the stopwatch to a GPIO pin
type PinMap struct {
	Reset  ControlPin
	Pause  ControlPin
	Resume ControlPin

	// Level-polled adjustment controls, active low with pull-ups
	Controls [NumControls]GPIOPin

	CountUpLED   GPIOPin
	CountDownLED GPIOPin
	Buzzer       GPIOPin
}

// ConfigurePins sets up every pin of the map on the registered driver
func (pm *PinMap) ConfigurePins() error {
	gpio := MustGPIO()

	for _, cp := range []ControlPin{pm.Reset, pm.Pause, pm.Resume} {
		if !cp.PullUp {
			continue
		}
		if err := gpio.ConfigureInputPullUp(cp.Pin); err != nil {
			return err
		}
	}
	for _, pin := range pm.Controls {
		if err := gpio.ConfigureInputPullUp(pin); err != nil {
			return err
		}
	}
	for _, pin := range []GPIOPin{pm.CountUpLED, pm.CountDownLED, pm.Buzzer} {
		if err := gpio.ConfigureOutput(pin); err != nil {
			return err
		}
	}
	return nil
}

// GPIOControls reads the adjustment controls from GPIO pins
type GPIOControls struct {
	Pins *PinMap
}

// ReadControls samples every control; a low pin is a pressed control
func (g GPIOControls) ReadControls() ControlLevels {
	gpio := MustGPIO()
	var levels ControlLevels
	for i, pin := range g.Pins.Controls {
		levels[i] = !gpio.ReadPin(pin)
	}
	return levels
}

// GPIOOutputs drives the LEDs and a plain buzzer through GPIO pins
type GPIOOutputs struct {
	Pins *PinMap
}

// ApplyOutputs writes every output pin
func (g GPIOOutputs) ApplyOutputs(out Outputs) error {
	gpio := MustGPIO()
	if err := gpio.SetPin(g.Pins.CountUpLED, out.CountUpLED); err != nil {
		return err
	}
	if err := gpio.SetPin(g.Pins.CountDownLED, out.CountDownLED); err != nil {
		return err
	}
	return gpio.SetPin(g.Pins.Buzzer, out.Buzzer)
}
