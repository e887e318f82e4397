package core

// Control identifies a level-polled adjustment control
type Control uint8

const (
	HoursUp Control = iota
	HoursDown
	MinutesUp
	MinutesDown
	SecondsUp
	SecondsDown
	ModeToggle
	NumControls
)

var controlNames = [NumControls]string{
	"hours+", "hours-", "minutes+", "minutes-", "seconds+", "seconds-", "mode",
}

func (c Control) String() string {
	if c < NumControls {
		return controlNames[c]
	}
	return "unknown"
}

// ControlLevels is one sample of every adjustment control (true = pressed)
type ControlLevels [NumControls]bool

// ControlReader samples the adjustment controls
type ControlReader interface {
	ReadControls() ControlLevels
}

// Adjuster is the manual adjustment controller. Every control is polled on
// every pass; controls act only while the register is paused.
type Adjuster struct {
	buttons [NumControls]Button
}

// NewAdjuster creates the controller. Field controls auto-repeat while held;
// the mode toggle fires once per press.
func NewAdjuster(debounce, repeatDelay, repeatInterval uint32) *Adjuster {
	a := &Adjuster{}
	for i := range a.buttons {
		a.buttons[i] = Button{
			Debounce:       debounce,
			RepeatDelay:    repeatDelay,
			RepeatInterval: repeatInterval,
			Repeat:         Control(i) != ModeToggle,
		}
	}
	return a
}

// Poll runs one polling pass. Button state is tracked in every run state so
// a press held across Pause does not fire as a new press. Returns the number
// of actions applied.
func (a *Adjuster) Poll(tk *TimeKeeper, levels ControlLevels, now uint32) int {
	applied := 0
	for i := range a.buttons {
		c := Control(i)
		if !a.buttons[i].Update(levels[i], now) || tk.Run != Paused {
			continue
		}
		a.apply(tk, c)
		RecordEvent(EvtAdjust, uint8(c), now, tk.Time.TotalSeconds())
		applied++
	}
	return applied
}

// Held reports whether a control is currently held
func (a *Adjuster) Held(c Control) bool {
	return a.buttons[c].Held()
}

func (a *Adjuster) apply(tk *TimeKeeper, c Control) {
	switch c {
	case HoursUp:
		tk.Adjust(FieldHours, true)
	case HoursDown:
		tk.Adjust(FieldHours, false)
	case MinutesUp:
		tk.Adjust(FieldMinutes, true)
	case MinutesDown:
		tk.Adjust(FieldMinutes, false)
	case SecondsUp:
		tk.Adjust(FieldSeconds, true)
	case SecondsDown:
		tk.Adjust(FieldSeconds, false)
	case ModeToggle:
		tk.ToggleMode()
	}
}
