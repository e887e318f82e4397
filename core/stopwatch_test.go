package core

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const second = 1000000 // MicrosecondTimer cycles per tick

type fakeDisplay struct {
	frames []Snapshot
	err    error
}

func (d *fakeDisplay) Render(s Snapshot) error {
	d.frames = append(d.frames, s)
	return d.err
}

type fakeOutputs struct {
	applied []Outputs
}

func (o *fakeOutputs) ApplyOutputs(out Outputs) error {
	o.applied = append(o.applied, out)
	return nil
}

func (o *fakeOutputs) last() Outputs {
	if len(o.applied) == 0 {
		return Outputs{}
	}
	return o.applied[len(o.applied)-1]
}

type fakeControls struct {
	levels ControlLevels
}

func (c *fakeControls) ReadControls() ControlLevels {
	return c.levels
}

type rig struct {
	sw       *Stopwatch
	display  *fakeDisplay
	outputs  *fakeOutputs
	controls *fakeControls
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		display:  &fakeDisplay{},
		outputs:  &fakeOutputs{},
		controls: &fakeControls{},
	}
	sw, err := NewStopwatch(DefaultSettings(), Board{
		Display:  r.display,
		Outputs:  r.outputs,
		Controls: r.controls,
	})
	require.NoError(t, err)
	r.sw = sw
	return r
}

func TestNewStopwatchErrors(t *testing.T) {
	settings := DefaultSettings()
	settings.Timer = TimerConfig{ClockHz: 16000000, Prescaler: 1024, Compare: 15624}
	_, err := NewStopwatch(settings, Board{Display: &fakeDisplay{}})
	require.ErrorIs(t, err, ErrTimerPeriod)

	settings = DefaultSettings()
	settings.PollIntervalUS = 0
	_, err = NewStopwatch(settings, Board{Display: &fakeDisplay{}})
	require.ErrorIs(t, err, ErrSettings)

	_, err = NewStopwatch(DefaultSettings(), Board{})
	require.ErrorIs(t, err, ErrNoDisplay)
}

func TestStopwatchBootsCountingUp(t *testing.T) {
	r := newRig(t)

	r.sw.Step(0)
	require.Equal(t, Outputs{CountUpLED: true}, r.outputs.last())
	require.Len(t, r.display.frames, 1)

	r.sw.Step(3*second + 10)
	snap := r.sw.Snapshot()
	require.Equal(t, TimeValue{Seconds: 3}, snap.Time)
	require.Equal(t, Running, snap.Run)
	require.Equal(t, uint32(10), r.sw.Counter())

	// Outputs did not change, so nothing new was written
	require.Len(t, r.outputs.applied, 1)
}

func TestStopwatchCountDownAlarm(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.sw.Preset(TimeValue{Seconds: 5}, CountDown))

	r.sw.Step(0)
	require.Equal(t, Outputs{CountDownLED: true}, r.outputs.last())

	r.sw.Step(4 * second)
	require.Equal(t, TimeValue{Seconds: 1}, r.sw.Snapshot().Time)
	require.False(t, r.sw.Snapshot().Alarm)

	r.sw.Step(5 * second)
	snap := r.sw.Snapshot()
	require.True(t, snap.Time.IsZero())
	require.True(t, snap.Alarm)
	require.Equal(t, Outputs{CountDownLED: true, Buzzer: true}, r.outputs.last())

	stats := r.sw.Stats()
	require.Equal(t, uint32(5), stats.Ticks)
	require.Equal(t, uint32(1), stats.Alarms)

	require.True(t, r.sw.Post(EventReset, 5*second+1))
	r.sw.Step(5*second + 2)
	snap = r.sw.Snapshot()
	require.False(t, snap.Alarm)
	require.Equal(t, CountDown, snap.Mode)
	require.Equal(t, Outputs{CountDownLED: true}, r.outputs.last())
}

func TestStopwatchPresetRejectsInvalidTime(t *testing.T) {
	r := newRig(t)
	require.ErrorIs(t, r.sw.Preset(TimeValue{Hours: 24}, CountUp), ErrInvalidTime)
	require.ErrorIs(t, r.sw.Preset(TimeValue{Minutes: 60}, CountUp), ErrInvalidTime)
	require.True(t, r.sw.Snapshot().Time.IsZero())
}

func TestStopwatchPauseResumeWithoutTicks(t *testing.T) {
	r := newRig(t)
	r.sw.Step(0)

	r.sw.Post(EventPause, 100)
	r.sw.Post(EventResume, 200)
	r.sw.Step(300)

	snap := r.sw.Snapshot()
	require.True(t, snap.Time.IsZero())
	require.Equal(t, Running, snap.Run)
	// The 100 cycles spent paused were not counted
	require.Equal(t, uint32(200), r.sw.Counter())
}

func TestStopwatchPausedTimeNotCounted(t *testing.T) {
	r := newRig(t)
	r.sw.Step(0)

	r.sw.Post(EventPause, 1500000)
	r.sw.Post(EventResume, 10*second)
	r.sw.Step(10 * second)
	require.Equal(t, TimeValue{Seconds: 1}, r.sw.Snapshot().Time)

	// Half a second was banked before the pause
	r.sw.Step(10*second + 499999)
	require.Equal(t, TimeValue{Seconds: 1}, r.sw.Snapshot().Time)
	r.sw.Step(10*second + 500000)
	require.Equal(t, TimeValue{Seconds: 2}, r.sw.Snapshot().Time)
}

func TestStopwatchAppliesEventsAtTheirTimestamp(t *testing.T) {
	r := newRig(t)
	r.sw.Step(0)

	r.sw.Post(EventPause, 2500000)
	r.sw.Step(10 * second)

	snap := r.sw.Snapshot()
	require.Equal(t, TimeValue{Seconds: 2}, snap.Time)
	require.Equal(t, Paused, snap.Run)
	require.Equal(t, uint32(500000), r.sw.Counter())
}

func TestStopwatchResetWhilePausedStaysPaused(t *testing.T) {
	r := newRig(t)
	r.sw.Step(0)

	r.sw.Post(EventPause, 3*second+700000)
	r.sw.Post(EventReset, 4*second)
	r.sw.Step(5 * second)

	snap := r.sw.Snapshot()
	require.True(t, snap.Time.IsZero())
	require.Equal(t, Paused, snap.Run)
	require.Equal(t, uint32(0), r.sw.Counter())
}

func TestStopwatchHandleImmediate(t *testing.T) {
	r := newRig(t)
	r.sw.Step(0)

	r.sw.Handle(EventPause)
	require.Equal(t, Paused, r.sw.Snapshot().Run)
	r.sw.Step(5 * second)
	require.True(t, r.sw.Snapshot().Time.IsZero())

	r.sw.Handle(EventResume)
	require.Equal(t, Running, r.sw.Snapshot().Run)
	require.Equal(t, uint32(2), r.sw.Stats().Controls)
}

func TestStopwatchModeToggleFromControls(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.sw.Preset(TimeValue{Minutes: 10}, CountUp))
	r.sw.Step(0)

	r.sw.Post(EventPause, 100)
	r.sw.Step(1000)
	require.Equal(t, Paused, r.sw.Snapshot().Run)

	r.controls.levels[ModeToggle] = true
	for now := uint32(10000); now <= 30000; now += 10000 {
		r.sw.Step(now)
	}
	require.Equal(t, CountDown, r.sw.Snapshot().Mode)
	require.Equal(t, Outputs{CountDownLED: true}, r.outputs.last())

	r.controls.levels[ModeToggle] = false
	for now := uint32(40000); now <= 60000; now += 10000 {
		r.sw.Step(now)
	}

	r.sw.Post(EventResume, 60000)
	r.sw.Step(60000 + second)
	require.Equal(t, TimeValue{Minutes: 9, Seconds: 59}, r.sw.Snapshot().Time)
	require.Equal(t, uint32(1), r.sw.Stats().Adjustments)
}

func TestStopwatchControlsIgnoredWhileRunning(t *testing.T) {
	r := newRig(t)
	r.sw.Step(0)

	r.controls.levels[HoursUp] = true
	for now := uint32(10000); now < second; now += 10000 {
		r.sw.Step(now)
	}
	require.True(t, r.sw.Snapshot().Time.IsZero())
	require.Equal(t, uint32(0), r.sw.Stats().Adjustments)
}

func TestStopwatchSignalLockout(t *testing.T) {
	r := newRig(t)

	require.False(t, r.sw.Signal(EventNone, 0))
	require.True(t, r.sw.Signal(EventReset, 1000))
	require.False(t, r.sw.Signal(EventReset, 2000)) // bounce
	require.True(t, r.sw.Signal(EventPause, 2000))  // separate input
	require.True(t, r.sw.Signal(EventReset, 60000))

	stats := r.sw.Stats()
	require.Equal(t, uint32(1), stats.EdgesRejected)
}

func TestStopwatchQueueOverflow(t *testing.T) {
	r := newRig(t)

	for i := 0; i < EventQueueSize; i++ {
		require.True(t, r.sw.Post(EventPause, uint32(i)))
	}
	require.False(t, r.sw.Post(EventResume, 100))
	require.Equal(t, uint32(1), r.sw.Stats().QueueOverflows)

	r.sw.Step(200)
	require.Equal(t, uint32(EventQueueSize), r.sw.Stats().Controls)
	require.True(t, r.sw.Post(EventResume, 300))
}

func TestStopwatchCountsRenderErrors(t *testing.T) {
	r := newRig(t)
	r.display.err = errors.New("bus fault")

	r.sw.Step(0)
	r.sw.Step(20000)

	stats := r.sw.Stats()
	assert.Equal(t, uint32(2), stats.Renders)
	assert.Equal(t, uint32(2), stats.RenderErrors)

	// Rendering failures do not stop time
	r.sw.Step(second)
	assert.Equal(t, TimeValue{Seconds: 1}, r.sw.Snapshot().Time)
}

func TestStopwatchRenderPeriod(t *testing.T) {
	r := newRig(t)

	for now := uint32(0); now <= 100000; now += 5000 {
		r.sw.Step(now)
	}
	// Render at 0, 20000, ... 100000
	require.Len(t, r.display.frames, 6)
}

func TestStopwatchConcurrentPost(t *testing.T) {
	r := newRig(t)
	r.sw.Step(0)

	const posts = 200
	var accepted int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < posts; i++ {
			e := EventPause
			if i%2 == 1 {
				e = EventResume
			}
			if r.sw.Post(e, uint32(i)) {
				accepted++
			}
		}
	}()

	for now := uint32(1); now <= 1000; now++ {
		r.sw.Step(now)
		_ = r.sw.Snapshot()
	}
	wg.Wait()
	r.sw.Step(1001)

	stats := r.sw.Stats()
	require.Equal(t, uint32(accepted), stats.Controls)
	require.Equal(t, uint32(posts), stats.Controls+stats.QueueOverflows)
}

func TestStepReleasesCriticalSectionOnPanic(t *testing.T) {
	r := newRig(t)
	r.sw.Step(0)

	// A broken register makes the tick engine panic mid-step
	tk := r.sw.tk
	r.sw.tk = nil
	require.Panics(t, func() { r.sw.Step(2 * second) })
	r.sw.tk = tk

	done := make(chan Stats, 1)
	go func() { done <- r.sw.Stats() }()
	select {
	case stats := <-done:
		// Counted before the tick engine ran
		require.Equal(t, uint32(1), stats.Ticks)
	case <-time.After(time.Second):
		t.Fatal("critical section still held after panic")
	}

	// The loop carries on after recovering
	r.sw.Step(3 * second)
	require.Equal(t, TimeValue{Seconds: 1}, r.sw.Snapshot().Time)
}
