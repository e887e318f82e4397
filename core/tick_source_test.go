package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimerConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  TimerConfig
		err  error
	}{
		{"avr timer1", AVRTimer1, nil},
		{"microsecond", MicrosecondTimer, nil},
		{"8MHz /256", TimerConfig{ClockHz: 8000000, Prescaler: 256, Compare: 31250}, nil},
		{"zero clock", TimerConfig{Prescaler: 1, Compare: 1}, ErrTimerConfig},
		{"zero prescaler", TimerConfig{ClockHz: 1000, Compare: 1000}, ErrTimerConfig},
		{"zero compare", TimerConfig{ClockHz: 1000, Prescaler: 1}, ErrTimerConfig},
		{"off by one compare", TimerConfig{ClockHz: 16000000, Prescaler: 1024, Compare: 15624}, ErrTimerPeriod},
		{"2Hz", TimerConfig{ClockHz: 16000000, Prescaler: 1024, Compare: 7812}, ErrTimerPeriod},
		{"prescaler remainder", TimerConfig{ClockHz: 1000000, Prescaler: 3, Compare: 333333}, ErrTimerPeriod},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestTimerConfigConversions(t *testing.T) {
	require.Equal(t, uint64(16000000), AVRTimer1.CyclesPerTick())
	require.Equal(t, uint32(160000), AVRTimer1.CyclesFromUS(10000))
	require.Equal(t, uint32(10000), AVRTimer1.CyclesToUS(160000))
	require.Equal(t, uint32(1234), MicrosecondTimer.CyclesFromUS(1234))
	require.Equal(t, "16000000 / 1024 / 15625", AVRTimer1.Describe())
}

func TestNewTickSourceRejectsDrift(t *testing.T) {
	_, err := NewTickSource(TimerConfig{ClockHz: 16000000, Prescaler: 1024, Compare: 15626})
	require.ErrorIs(t, err, ErrTimerPeriod)
}

func TestTickSourceOneTickPerSecond(t *testing.T) {
	ts, err := NewTickSource(AVRTimer1)
	require.NoError(t, err)
	require.True(t, ts.Enabled())

	require.Equal(t, 0, ts.Advance(16000000-1))
	require.Equal(t, 1, ts.Advance(1))
	require.Equal(t, uint32(0), ts.Counter())

	// Sub-prescaler cycles carry over between calls
	ticks := 0
	for i := 0; i < 16000; i++ {
		ticks += ts.Advance(1000)
	}
	require.Equal(t, 1, ticks)

	require.Equal(t, 5, ts.Advance(5*16000000))
}

func TestTickSourceGateDropsCycles(t *testing.T) {
	ts, err := NewTickSource(MicrosecondTimer)
	require.NoError(t, err)

	require.Equal(t, 0, ts.Advance(400000))
	ts.Disable()
	require.Equal(t, 0, ts.Advance(5000000))
	require.Equal(t, uint32(400000), ts.Counter())

	ts.Enable()
	require.Equal(t, 0, ts.Advance(599999))
	require.Equal(t, 1, ts.Advance(1))
}

func TestTickSourceClearCounter(t *testing.T) {
	ts, err := NewTickSource(AVRTimer1)
	require.NoError(t, err)

	ts.Advance(12000000 + 500)
	require.Equal(t, uint32(11719), ts.Counter())

	ts.ClearCounter()
	require.Equal(t, uint32(0), ts.Counter())
	require.Equal(t, 0, ts.Advance(16000000-1))
	require.Equal(t, 1, ts.Advance(1))
}
