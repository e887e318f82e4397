package sim

import (
	"context"
	"fmt"
	"io"
	"sync"

	"stopwatch/core"
	"stopwatch/internal/logger"
)

// clearLine returns the cursor to column 0 and erases the line
const clearLine = "\r\x1b[K"

// TerminalDisplay redraws a single status line in place on a terminal
type TerminalDisplay struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

// NewTerminalDisplay returns a display drawing on w
func NewTerminalDisplay(w io.Writer) *TerminalDisplay {
	return &TerminalDisplay{w: w}
}

// Render implements core.Display
func (d *TerminalDisplay) Render(s core.Snapshot) error {
	line := s.Status() + leds(s.Out)

	d.mu.Lock()
	defer d.mu.Unlock()

	if line == d.last {
		return nil
	}
	if _, err := io.WriteString(d.w, clearLine+line); err != nil {
		return fmt.Errorf("terminal display: %w", err)
	}
	d.last = line
	return nil
}

func leds(out core.Outputs) string {
	s := "  ["
	if out.CountUpLED {
		s += "R"
	} else {
		s += "."
	}
	if out.CountDownLED {
		s += "Y"
	} else {
		s += "."
	}
	return s + "]"
}

// LoggingOutputs forwards to another sink and logs buzzer changes
type LoggingOutputs struct {
	Next core.OutputSink
	Ctx  context.Context

	buzzer bool
}

// ApplyOutputs implements core.OutputSink
func (o *LoggingOutputs) ApplyOutputs(out core.Outputs) error {
	if out.Buzzer != o.buzzer {
		o.buzzer = out.Buzzer
		if out.Buzzer {
			logger.Infof(o.Ctx, "buzzer on")
		} else {
			logger.Infof(o.Ctx, "buzzer off")
		}
	}
	if o.Next == nil {
		return nil
	}
	return o.Next.ApplyOutputs(out)
}
