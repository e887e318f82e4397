package core

import "errors"

// ErrInvalidTime is returned when presetting an out-of-range time
var ErrInvalidTime = errors.New("time value out of range")

// Board bundles the peripherals a stopwatch drives. Outputs and Controls
// are optional; Display is required.
type Board struct {
	Display  Display
	Outputs  OutputSink
	Controls ControlReader
}

// Stats counts what the stopwatch has done since boot
type Stats struct {
	Ticks          uint32
	Alarms         uint32
	Controls       uint32
	Adjustments    uint32
	Renders        uint32
	RenderErrors   uint32
	OutputErrors   uint32
	EdgesRejected  uint32
	QueueOverflows uint32
}

// Stopwatch is the device: the time register, the tick source gating the
// tick engine, the control signal handler and the adjustment controller.
//
// Interrupt handlers call Signal (or Handle); the main loop calls Step with
// the free-running timer clock. Time arguments are timer input clock cycles.
type Stopwatch struct {
	settings Settings
	board    Board

	tk       *TimeKeeper
	source   *TickSource
	adjuster *Adjuster
	queue    EventQueue
	filters  [EventResume + 1]EdgeFilter

	sched        *Scheduler
	pollTimer    Timer
	renderTimer  Timer
	pollPeriod   uint32
	renderPeriod uint32

	started  bool
	last     uint32 // Clock up to which ticks have been accounted
	lastOut  Outputs
	outValid bool
	stats    Stats
}

// NewStopwatch validates the settings and builds a stopwatch in its boot
// state. A timer configuration that does not produce exactly 1Hz is refused.
func NewStopwatch(settings Settings, board Board) (*Stopwatch, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if board.Display == nil {
		return nil, ErrNoDisplay
	}

	source, err := NewTickSource(settings.Timer)
	if err != nil {
		return nil, err
	}

	cfg := settings.Timer
	s := &Stopwatch{
		settings: settings,
		board:    board,
		tk:       NewTimeKeeper(),
		source:   source,
		adjuster: NewAdjuster(
			cfg.CyclesFromUS(settings.DebounceUS),
			cfg.CyclesFromUS(settings.RepeatDelayUS),
			cfg.CyclesFromUS(settings.RepeatIntervalUS),
		),
		sched:        NewScheduler(),
		pollPeriod:   cfg.CyclesFromUS(settings.PollIntervalUS),
		renderPeriod: cfg.CyclesFromUS(settings.RenderIntervalUS),
	}

	lockout := cfg.CyclesFromUS(settings.EdgeLockoutUS)
	for i := range s.filters {
		s.filters[i] = NewEdgeFilter(lockout)
	}

	s.pollTimer.Handler = s.pollControls
	s.renderTimer.Handler = s.render

	return s, nil
}

// Settings returns the settings the stopwatch was built with
func (s *Stopwatch) Settings() Settings {
	return s.settings
}

// Preset loads a time and mode, e.g. a count-down start value from config
func (s *Stopwatch) Preset(t TimeValue, m Mode) error {
	if !t.Valid() {
		return ErrInvalidTime
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.tk.Time = t
	if s.tk.Mode != m {
		s.tk.ToggleMode()
	}
	return nil
}

// Start schedules the foreground duties from now. Step calls it on first use.
func (s *Stopwatch) Start(now uint32) {
	s.started = true
	s.last = now

	s.pollTimer.WakeTime = now
	s.renderTimer.WakeTime = now
	s.sched.Schedule(&s.pollTimer)
	s.sched.Schedule(&s.renderTimer)

	s.syncOutputs()
	DebugPrintln("[STOPWATCH] started, timer " + s.settings.Timer.Describe())
}

// Signal is the entry point for an edge on a reset/pause/resume input.
// It is bounded and non-blocking and may run in interrupt context: bounces
// inside the lockout window are dropped and the event is queued for Step.
func (s *Stopwatch) Signal(e Event, now uint32) bool {
	if e == EventNone || e > EventResume {
		return false
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	if !s.filters[e].Accept(now) {
		s.stats.EdgesRejected++
		RecordEvent(EvtEdgeRejected, uint8(e), now, 0)
		return false
	}
	if !s.queue.push(e, now) {
		s.stats.QueueOverflows++
		RecordEvent(EvtQueueOverflow, uint8(e), now, 0)
		return false
	}
	return true
}

// Post queues an already debounced control event
func (s *Stopwatch) Post(e Event, now uint32) bool {
	if e == EventNone || e > EventResume {
		return false
	}
	if !s.queue.Push(e, now) {
		state := disableInterrupts()
		s.stats.QueueOverflows++
		RecordEvent(EvtQueueOverflow, uint8(e), now, 0)
		restoreInterrupts(state)
		return false
	}
	return true
}

// Handle applies a control event immediately
func (s *Stopwatch) Handle(e Event) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	s.handle(e, s.last)
}

// handle runs with the critical section held
func (s *Stopwatch) handle(e Event, now uint32) {
	switch e {
	case EventReset:
		s.source.ClearCounter()
		s.tk.Reset()
	case EventPause:
		s.source.Disable()
		s.tk.Pause()
	case EventResume:
		s.source.Enable()
		s.tk.Resume()
	default:
		return
	}
	s.stats.Controls++
	RecordEvent(EvtControl, uint8(e), now, s.tk.Time.TotalSeconds())
}

// Step runs one main loop pass at now: queued control events are applied
// in arrival order with the tick source advanced up to each event's
// timestamp, the remaining time is fed to the tick source, due foreground
// timers run and the outputs are refreshed.
func (s *Stopwatch) Step(now uint32) {
	if !s.started {
		s.Start(now)
	}

	for {
		e, at, ok := s.queue.Pop()
		if !ok {
			break
		}
		if timeBefore(now, at) {
			at = now
		}
		s.applyAt(e, at)
	}
	s.catchUp(now)

	s.sched.Dispatch(now)
	s.syncOutputs()
}

// applyAt advances the tick source to at and applies e there
func (s *Stopwatch) applyAt(e Event, at uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	s.advanceTo(at)
	s.handle(e, at)
}

// catchUp advances the tick source to now
func (s *Stopwatch) catchUp(now uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	s.advanceTo(now)
}

// advanceTo feeds the tick source the cycles between the last accounted
// clock and now, running the tick engine once per compare match.
// The caller holds the critical section.
func (s *Stopwatch) advanceTo(now uint32) {
	if timeBefore(now, s.last) {
		return
	}
	ticks := s.source.Advance(now - s.last)
	s.last = now

	for i := 0; i < ticks; i++ {
		s.stats.Ticks++
		if s.tk.Tick() {
			s.stats.Alarms++
			RecordEvent(EvtAlarm, 0, now, 0)
		} else {
			RecordEvent(EvtTick, uint8(s.tk.Mode), now, s.tk.Time.TotalSeconds())
		}
	}
}

// pollControls is the scheduler handler for the adjustment controller
func (s *Stopwatch) pollControls(t *Timer) uint8 {
	now := s.sched.Now()
	if s.board.Controls != nil {
		s.adjust(s.board.Controls.ReadControls(), now)
	}
	return reschedule(t, s.pollPeriod, now)
}

func (s *Stopwatch) adjust(levels ControlLevels, now uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	s.stats.Adjustments += uint32(s.adjuster.Poll(s.tk, levels, now))
}

// render is the scheduler handler for the display
func (s *Stopwatch) render(t *Timer) uint8 {
	now := s.sched.Now()
	snap := s.Snapshot()
	err := s.board.Display.Render(snap)

	state := disableInterrupts()
	s.stats.Renders++
	if err != nil {
		s.stats.RenderErrors++
		RecordEvent(EvtRenderError, 0, now, snap.Time.TotalSeconds())
	}
	restoreInterrupts(state)

	if err != nil {
		DebugPrintln("[STOPWATCH] render failed: " + err.Error())
	}
	return reschedule(t, s.renderPeriod, now)
}

// reschedule moves a periodic timer to its next period without bursting
// to catch up when the loop fell behind
func reschedule(t *Timer, period, now uint32) uint8 {
	t.WakeTime += period
	if !timeBefore(now, t.WakeTime) {
		t.WakeTime = now + period
	}
	return SF_RESCHEDULE
}

// syncOutputs writes the LEDs and buzzer when they changed
func (s *Stopwatch) syncOutputs() {
	if s.board.Outputs == nil {
		return
	}

	state := disableInterrupts()
	out := s.tk.Out
	restoreInterrupts(state)

	if s.outValid && out == s.lastOut {
		return
	}
	if err := s.board.Outputs.ApplyOutputs(out); err != nil {
		state = disableInterrupts()
		s.stats.OutputErrors++
		restoreInterrupts(state)
		return
	}
	s.lastOut = out
	s.outValid = true
}

// Snapshot copies the full register under the critical section
func (s *Stopwatch) Snapshot() Snapshot {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.tk.snapshot()
}

// Counter returns the counts accumulated towards the next tick
func (s *Stopwatch) Counter() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.source.Counter()
}

// Stats returns a copy of the counters
func (s *Stopwatch) Stats() Stats {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.stats
}
