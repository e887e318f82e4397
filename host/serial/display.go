package serial

import (
	"fmt"
	"io"
	"sync"

	"stopwatch/core"
)

// LineDisplay renders the register as text lines on a serial terminal.
// A line is only sent when its contents change, so a 50Hz render pass costs
// one line per second on the wire.
type LineDisplay struct {
	mu   sync.Mutex
	w    io.Writer
	last string
	sent int
}

// NewLineDisplay returns a display writing to w
func NewLineDisplay(w io.Writer) *LineDisplay {
	return &LineDisplay{w: w}
}

// Render implements core.Display
func (d *LineDisplay) Render(s core.Snapshot) error {
	line := s.Status()

	d.mu.Lock()
	defer d.mu.Unlock()

	if line == d.last {
		return nil
	}
	if _, err := io.WriteString(d.w, line+"\r\n"); err != nil {
		return fmt.Errorf("serial display: %w", err)
	}
	d.last = line
	d.sent++
	return nil
}

// Sent returns the number of lines written
func (d *LineDisplay) Sent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent
}
