package sim

import (
	"errors"
	"sync"

	"stopwatch/core"
)

var errNotConfigured = errors.New("sim gpio: pin not configured")

// EdgeHandler is called for a pin transition, like a pin change interrupt
type EdgeHandler func(pin core.GPIOPin)

type simPin struct {
	output  bool
	level   bool
	handler EdgeHandler
	edge    core.Edge
}

// SimGPIO is an in-memory GPIO bank. Inputs configured with a pull-up idle
// high; Drive changes an input level and fires its edge handler.
type SimGPIO struct {
	mu   sync.Mutex
	pins map[core.GPIOPin]*simPin
}

// NewSimGPIO returns an empty bank
func NewSimGPIO() *SimGPIO {
	return &SimGPIO{pins: make(map[core.GPIOPin]*simPin)}
}

// ConfigureOutput implements core.GPIODriver
func (g *SimGPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pins[pin] = &simPin{output: true}
	return nil
}

// ConfigureInputPullUp implements core.GPIODriver
func (g *SimGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pins[pin] = &simPin{level: true}
	return nil
}

// SetPin implements core.GPIODriver
func (g *SimGPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pins[pin]
	if !ok || !p.output {
		return errNotConfigured
	}
	p.level = value
	return nil
}

// ReadPin implements core.GPIODriver
func (g *SimGPIO) ReadPin(pin core.GPIOPin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.pins[pin]; ok {
		return p.level
	}
	return false
}

// SetInterrupt registers h for transitions matching edge on an input pin
func (g *SimGPIO) SetInterrupt(pin core.GPIOPin, edge core.Edge, h EdgeHandler) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pins[pin]
	if !ok || p.output {
		return errNotConfigured
	}
	p.edge = edge
	p.handler = h
	return nil
}

// Drive sets an input level. A transition matching the registered edge
// calls the handler after the bank lock is released.
func (g *SimGPIO) Drive(pin core.GPIOPin, level bool) {
	g.mu.Lock()
	p, ok := g.pins[pin]
	if !ok || p.output || p.level == level {
		g.mu.Unlock()
		return
	}
	p.level = level

	var h EdgeHandler
	if p.handler != nil && (level == (p.edge == core.EdgeRising)) {
		h = p.handler
	}
	g.mu.Unlock()

	if h != nil {
		h(pin)
	}
}

// Pulse presses and releases an active-low button, producing a falling then
// a rising edge
func (g *SimGPIO) Pulse(pin core.GPIOPin) {
	g.Drive(pin, false)
	g.Drive(pin, true)
}
