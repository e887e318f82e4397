package core

// Mode selects the tick direction
type Mode uint8

const (
	CountUp Mode = iota
	CountDown
)

func (m Mode) String() string {
	if m == CountDown {
		return "down"
	}
	return "up"
}

// RunState tells whether the tick engine is gated on
type RunState uint8

const (
	Running RunState = iota
	Paused
)

func (r RunState) String() string {
	if r == Paused {
		return "paused"
	}
	return "running"
}

// Outputs is the state of the physical indicator and alarm outputs.
// The buzzer is the alarm output; the LEDs only show the active mode.
type Outputs struct {
	CountUpLED   bool
	CountDownLED bool
	Buzzer       bool
}

// Field identifies one field of the time register for manual adjustment
type Field uint8

const (
	FieldHours Field = iota
	FieldMinutes
	FieldSeconds
)

// TimeKeeper is the time register aggregate shared by the tick engine,
// the control signal handler and the adjustment controller.
//
// TimeKeeper does no locking of its own. Callers hold the critical section
// (see Stopwatch) around every method call.
type TimeKeeper struct {
	Time  TimeValue
	Mode  Mode
	Run   RunState
	Alarm bool
	Out   Outputs
}

// NewTimeKeeper returns a time register in its boot state:
// 00:00:00, running, counting up, count-up LED lit.
func NewTimeKeeper() *TimeKeeper {
	tk := &TimeKeeper{}
	tk.boot()
	return tk
}

func (tk *TimeKeeper) boot() {
	*tk = TimeKeeper{
		Mode: CountUp,
		Run:  Running,
	}
	tk.syncModeLEDs()
}

// Tick advances the register by one second in the current mode.
// Returns true when a count-down tick leaves the register exhausted.
func (tk *TimeKeeper) Tick() bool {
	if tk.Mode == CountUp {
		tk.Out.CountUpLED = true
		tk.Out.Buzzer = false
		tk.Alarm = false
		tk.Time.increment()
		return false
	}

	if tk.Time.decrement() && !tk.Time.IsZero() {
		tk.Alarm = false
		return false
	}

	// Reached or already at 00:00:00: hold at zero and assert the alarm
	tk.Alarm = true
	tk.Out.Buzzer = true
	return true
}

// Reset zeroes the register and clears the alarm.
// Mode and run state are left as they are.
func (tk *TimeKeeper) Reset() {
	tk.Time = TimeValue{}
	tk.Alarm = false
	tk.Out.Buzzer = false
}

// Pause marks the register as paused
func (tk *TimeKeeper) Pause() {
	tk.Run = Paused
}

// Resume marks the register as running and silences the buzzer.
// The alarm flag itself is re-evaluated by the next tick.
func (tk *TimeKeeper) Resume() {
	tk.Run = Running
	tk.Out.Buzzer = false
}

// Adjust steps one field up or down, wrapping at the field limit
func (tk *TimeKeeper) Adjust(f Field, up bool) {
	switch f {
	case FieldHours:
		tk.Time.Hours = stepField(tk.Time.Hours, HoursPerDay, up)
	case FieldMinutes:
		tk.Time.Minutes = stepField(tk.Time.Minutes, MinutesPerHour, up)
	case FieldSeconds:
		tk.Time.Seconds = stepField(tk.Time.Seconds, SecondsPerMinute, up)
	}
}

// ToggleMode flips the count direction and swaps the mode LEDs.
// Entering a mode with time on the register clears the alarm; a count-down
// at 00:00:00 keeps it.
func (tk *TimeKeeper) ToggleMode() {
	if tk.Mode == CountUp {
		tk.Mode = CountDown
	} else {
		tk.Mode = CountUp
	}
	tk.syncModeLEDs()

	if tk.Mode == CountUp || !tk.Time.IsZero() {
		tk.Alarm = false
		tk.Out.Buzzer = false
	}
}

func (tk *TimeKeeper) syncModeLEDs() {
	tk.Out.CountUpLED = tk.Mode == CountUp
	tk.Out.CountDownLED = tk.Mode == CountDown
}

// Snapshot is a full copy of the time register taken for rendering
type Snapshot struct {
	Time  TimeValue
	Mode  Mode
	Run   RunState
	Alarm bool
	Out   Outputs
}

// snapshot copies the register; the caller holds the critical section
func (tk *TimeKeeper) snapshot() Snapshot {
	return Snapshot{
		Time:  tk.Time,
		Mode:  tk.Mode,
		Run:   tk.Run,
		Alarm: tk.Alarm,
		Out:   tk.Out,
	}
}

// Status renders a one-line summary, e.g. "00:09:59 down RUN BUZZ"
func (s Snapshot) Status() string {
	line := s.Time.String() + " " + s.Mode.String()
	if s.Run == Paused {
		line += " PAUSE"
	} else {
		line += " RUN"
	}
	if s.Out.Buzzer {
		line += " BUZZ"
	}
	return line
}
