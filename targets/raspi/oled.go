//go:build linux

package main

import (
	"fmt"
	"time"

	"github.com/davecheney/i2c"

	"stopwatch/core"
)

const oledColumns = 16

// OLEDDisplay renders on a 16x2 character OLED with an ST7032/SO1602
// compatible controller over I2C
type OLEDDisplay struct {
	bus  *i2c.I2C
	last [2]string
}

// NewOLEDDisplay opens the controller at addr on /dev/i2c-<bus> and
// initialises it
func NewOLEDDisplay(addr uint8, bus int) (*OLEDDisplay, error) {
	dev, err := i2c.New(addr, bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c-%d addr %#x: %w", bus, addr, err)
	}

	d := &OLEDDisplay{bus: dev}
	if err := d.configure(); err != nil {
		dev.Close()
		return nil, err
	}
	return d, nil
}

func (d *OLEDDisplay) configure() error {
	// Power-on settle, then clear, home, display on
	time.Sleep(100 * time.Millisecond)
	steps := []struct {
		cmd  byte
		wait time.Duration
	}{
		{0x01, 20 * time.Millisecond},
		{0x02, 2 * time.Millisecond},
		{0x0c, 0},
	}
	for _, s := range steps {
		if err := d.command(s.cmd); err != nil {
			return err
		}
		time.Sleep(s.wait)
	}
	return nil
}

func (d *OLEDDisplay) command(c byte) error {
	_, err := d.bus.Write([]byte{0x00, c})
	return err
}

func (d *OLEDDisplay) print(row uint8, s string) error {
	// Set DDRAM address; row 1 starts at 0x20
	if err := d.command(0x80 + (row&0x01)*0x20); err != nil {
		return err
	}
	_, err := d.bus.Write(append([]byte{0x40}, s...))
	return err
}

// Render implements core.Display
func (d *OLEDDisplay) Render(s core.Snapshot) error {
	for row, line := range oledLines(s) {
		if line == d.last[row] {
			continue
		}
		if err := d.print(uint8(row), line); err != nil {
			d.last[row] = ""
			return fmt.Errorf("oled row %d: %w", row, err)
		}
		d.last[row] = line
	}
	return nil
}

// Close clears the display and releases the bus
func (d *OLEDDisplay) Close() error {
	_ = d.command(0x01)
	return d.bus.Close()
}

// oledLines lays the register out on two 16-column rows:
//
//	"    12:34:56    "
//	"DOWN  PAUSE BUZZ"
func oledLines(s core.Snapshot) [2]string {
	top := pad("    " + s.Time.String())

	bottom := "UP  "
	if s.Mode == core.CountDown {
		bottom = "DOWN"
	}
	if s.Run == core.Paused {
		bottom += "  PAUSE"
	} else {
		bottom += "  RUN  "
	}
	if s.Out.Buzzer {
		bottom += " BUZZ"
	}
	return [2]string{top, pad(bottom)}
}

func pad(s string) string {
	for len(s) < oledColumns {
		s += " "
	}
	return s[:oledColumns]
}
