package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeKeeperBootState(t *testing.T) {
	tk := NewTimeKeeper()

	require.Equal(t, TimeValue{}, tk.Time)
	require.Equal(t, CountUp, tk.Mode)
	require.Equal(t, Running, tk.Run)
	require.False(t, tk.Alarm)
	require.Equal(t, Outputs{CountUpLED: true}, tk.Out)
}

func TestCountUpMatchesSecondCount(t *testing.T) {
	for _, n := range []uint32{0, 1, 59, 60, 61, 3599, 3600, 3661, SecondsPerDay - 1, SecondsPerDay, SecondsPerDay + 125} {
		tk := NewTimeKeeper()
		for i := uint32(0); i < n; i++ {
			require.False(t, tk.Tick())
		}
		require.Equal(t, TimeFromSeconds(n), tk.Time, "n=%d", n)
		require.False(t, tk.Alarm)
	}
}

func TestCountDownReachesZeroAndHolds(t *testing.T) {
	for _, start := range []TimeValue{{0, 0, 1}, {0, 0, 5}, {0, 1, 0}, {1, 0, 0}, {2, 3, 4}} {
		tk := NewTimeKeeper()
		tk.ToggleMode()
		tk.Time = start

		n := start.TotalSeconds()
		for i := uint32(0); i < n-1; i++ {
			require.False(t, tk.Tick(), "start=%s tick=%d", start, i)
			require.Equal(t, TimeFromSeconds(n-i-1), tk.Time)
			require.False(t, tk.Alarm)
		}

		// The tick reaching zero asserts the alarm
		require.True(t, tk.Tick())
		require.True(t, tk.Time.IsZero())
		require.True(t, tk.Alarm)
		require.True(t, tk.Out.Buzzer)

		// Later ticks re-assert without underflow
		for i := 0; i < 3; i++ {
			require.True(t, tk.Tick())
			require.True(t, tk.Time.IsZero())
			require.True(t, tk.Alarm)
			require.True(t, tk.Out.Buzzer)
		}
	}
}

func TestCountDownBorrowChain(t *testing.T) {
	tk := NewTimeKeeper()
	tk.ToggleMode()

	tk.Time = TimeValue{Minutes: 1}
	tk.Tick()
	assert.Equal(t, TimeValue{0, 0, 59}, tk.Time)

	tk.Time = TimeValue{Hours: 1}
	tk.Tick()
	assert.Equal(t, TimeValue{0, 59, 59}, tk.Time)

	tk.Time = TimeValue{5, 0, 0}
	tk.Tick()
	assert.Equal(t, TimeValue{4, 59, 59}, tk.Time)
}

func TestResetKeepsModeAndRunState(t *testing.T) {
	for _, mode := range []Mode{CountUp, CountDown} {
		for _, run := range []RunState{Running, Paused} {
			tk := NewTimeKeeper()
			if mode == CountDown {
				tk.ToggleMode()
			}
			tk.Run = run
			tk.Time = TimeValue{13, 37, 42}
			tk.Alarm = true
			tk.Out.Buzzer = true

			tk.Reset()

			require.True(t, tk.Time.IsZero())
			require.False(t, tk.Alarm)
			require.False(t, tk.Out.Buzzer)
			require.Equal(t, mode, tk.Mode)
			require.Equal(t, run, tk.Run)
		}
	}
}

func TestResumeSilencesBuzzerOnly(t *testing.T) {
	tk := NewTimeKeeper()
	tk.ToggleMode()
	tk.Tick() // at zero: alarm
	tk.Pause()

	tk.Resume()
	require.Equal(t, Running, tk.Run)
	require.False(t, tk.Out.Buzzer)
	require.True(t, tk.Alarm)

	// Still exhausted: the next tick sounds the buzzer again
	tk.Tick()
	require.True(t, tk.Out.Buzzer)
}

func TestAdjustWrapsAtBoundaries(t *testing.T) {
	tk := NewTimeKeeper()

	tk.Adjust(FieldHours, false)
	tk.Adjust(FieldMinutes, false)
	tk.Adjust(FieldSeconds, false)
	require.Equal(t, TimeValue{23, 59, 59}, tk.Time)

	tk.Adjust(FieldHours, true)
	tk.Adjust(FieldMinutes, true)
	tk.Adjust(FieldSeconds, true)
	require.Equal(t, TimeValue{}, tk.Time)

	// Adjusting one field never carries into another
	tk.Time = TimeValue{10, 59, 0}
	tk.Adjust(FieldMinutes, true)
	require.Equal(t, TimeValue{10, 0, 0}, tk.Time)
}

func TestToggleModeSwapsLEDs(t *testing.T) {
	tk := NewTimeKeeper()

	tk.ToggleMode()
	require.Equal(t, CountDown, tk.Mode)
	require.False(t, tk.Out.CountUpLED)
	require.True(t, tk.Out.CountDownLED)

	tk.ToggleMode()
	require.Equal(t, CountUp, tk.Mode)
	require.True(t, tk.Out.CountUpLED)
	require.False(t, tk.Out.CountDownLED)
}

func TestToggleModeAlarmHandling(t *testing.T) {
	tk := NewTimeKeeper()
	tk.ToggleMode()
	tk.Tick()
	require.True(t, tk.Alarm)

	// Re-entering count-down at zero keeps the alarm
	tk.ToggleMode()
	require.False(t, tk.Alarm)
	tk.ToggleMode()
	tk.Tick()
	require.True(t, tk.Alarm)

	tk.Time = TimeValue{Seconds: 10}
	tk.ToggleMode()
	tk.ToggleMode()
	require.False(t, tk.Alarm)
	require.False(t, tk.Out.Buzzer)
}

func TestToggleDirectionFromTenMinutes(t *testing.T) {
	cases := []struct {
		toggles int
		want    TimeValue
	}{
		{0, TimeValue{0, 10, 1}},
		{1, TimeValue{0, 9, 59}},
		{2, TimeValue{0, 10, 1}},
	}

	for _, tc := range cases {
		tk := NewTimeKeeper()
		tk.Pause()
		tk.Time = TimeValue{Minutes: 10}
		for i := 0; i < tc.toggles; i++ {
			tk.ToggleMode()
		}
		tk.Resume()
		tk.Tick()
		require.Equal(t, tc.want, tk.Time, "toggles=%d", tc.toggles)
	}
}

func TestSnapshotStatus(t *testing.T) {
	tk := NewTimeKeeper()
	require.Equal(t, "00:00:00 up RUN", tk.snapshot().Status())

	tk.ToggleMode()
	tk.Tick()
	tk.Pause()
	require.Equal(t, "00:00:00 down PAUSE BUZZ", tk.snapshot().Status())
}
