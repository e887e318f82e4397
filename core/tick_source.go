package core

// TickSource models a compare-match hardware timer driving the tick engine.
//
// Input clock cycles pass through the prescaler into the counter; when the
// counter reaches the compare value it is cleared and one tick is produced.
// Disabling the source gates the clock: cycles delivered while disabled are
// dropped, so a paused stopwatch never accumulates time. The counter is kept
// across Disable/Enable and only ClearCounter zeroes it.
type TickSource struct {
	config    TimerConfig
	prescaled uint32 // Input cycles not yet forming a whole count
	counter   uint32 // Counts since the last compare match
	enabled   bool
}

// NewTickSource returns a source configured and enabled
func NewTickSource(cfg TimerConfig) (*TickSource, error) {
	ts := &TickSource{}
	if err := ts.Configure(cfg); err != nil {
		return nil, err
	}
	return ts, nil
}

// Configure validates and loads a timer configuration, clears the counter
// and enables the clock
func (ts *TickSource) Configure(cfg TimerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ts.config = cfg
	ts.ClearCounter()
	ts.enabled = true
	return nil
}

// Config returns the loaded configuration
func (ts *TickSource) Config() TimerConfig {
	return ts.config
}

// Enable reconnects the clock with the loaded configuration
func (ts *TickSource) Enable() {
	ts.enabled = true
}

// Disable disconnects the clock
func (ts *TickSource) Disable() {
	ts.enabled = false
}

// Enabled reports whether the clock is connected
func (ts *TickSource) Enabled() bool {
	return ts.enabled
}

// ClearCounter zeroes the counter and prescaler
func (ts *TickSource) ClearCounter() {
	ts.prescaled = 0
	ts.counter = 0
}

// Counter returns the counts accumulated towards the next tick
func (ts *TickSource) Counter() uint32 {
	return ts.counter
}

// Advance feeds input clock cycles to the timer and returns the number of
// compare matches (ticks) they produced
func (ts *TickSource) Advance(cycles uint32) int {
	if !ts.enabled || cycles == 0 {
		return 0
	}

	total := uint64(ts.prescaled) + uint64(cycles)
	counts := total / uint64(ts.config.Prescaler)
	ts.prescaled = uint32(total % uint64(ts.config.Prescaler))

	counts += uint64(ts.counter)
	ticks := counts / uint64(ts.config.Compare)
	ts.counter = uint32(counts % uint64(ts.config.Compare))

	return int(ticks)
}
