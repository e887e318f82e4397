//go:build rp2040 || rp2350

package main

import (
	"machine"

	"tinygo.org/x/drivers/max72xx"

	"stopwatch/core"
)

// LEDDisplay renders HH.MM.SS on a 6-digit 7-segment module multiplexed by
// a MAX7219. The chip scans the digits itself; Render only rewrites digit
// registers whose contents changed.
type LEDDisplay struct {
	dev  *max72xx.Device
	last [core.DisplayDigits]byte
	init bool
}

// NewLEDDisplay configures the MAX7219 on bus with chip select cs
func NewLEDDisplay(bus *machine.SPI, cs machine.Pin, intensity uint8) *LEDDisplay {
	dev := max72xx.NewDevice(bus, cs)
	dev.Configure()
	dev.StopDisplayTest()
	// SetDecodeMode only knows 1, 2-4 and 8 digits; set the mask directly
	dev.WriteCommand(max72xx.REG_DECODE_MODE, core.CodeBDecodeMask(core.DisplayDigits))
	dev.SetScanLimit(core.DisplayDigits)
	dev.SetIntensity(intensity)
	dev.StopShutdownMode()

	return &LEDDisplay{dev: dev}
}

// Render implements core.Display
func (d *LEDDisplay) Render(s core.Snapshot) error {
	d.write(core.CodeBFrame(s))
	return nil
}

// Blank clears every digit
func (d *LEDDisplay) Blank() {
	d.write(core.BlankFrame())
}

// write sends the digit registers that changed since the last frame
func (d *LEDDisplay) write(frame [core.DisplayDigits]byte) {
	for i, v := range frame {
		if d.init && d.last[i] == v {
			continue
		}
		d.dev.WriteCommand(max72xx.REG_DIGIT0+byte(i), v)
		d.last[i] = v
	}
	d.init = true
}
