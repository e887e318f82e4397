package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeFromSeconds(t *testing.T) {
	cases := []struct {
		n    uint32
		want TimeValue
	}{
		{0, TimeValue{}},
		{59, TimeValue{Seconds: 59}},
		{60, TimeValue{Minutes: 1}},
		{3599, TimeValue{Minutes: 59, Seconds: 59}},
		{3600, TimeValue{Hours: 1}},
		{SecondsPerDay - 1, TimeValue{Hours: 23, Minutes: 59, Seconds: 59}},
		{SecondsPerDay, TimeValue{}},
		{SecondsPerDay + 61, TimeValue{Minutes: 1, Seconds: 1}},
	}

	for _, tc := range cases {
		got := TimeFromSeconds(tc.n)
		require.Equal(t, tc.want, got, "n=%d", tc.n)
		require.True(t, got.Valid())
		require.Equal(t, tc.n%SecondsPerDay, got.TotalSeconds())
	}
}

func TestTimeValueString(t *testing.T) {
	require.Equal(t, "00:00:00", TimeValue{}.String())
	require.Equal(t, "23:59:59", TimeValue{23, 59, 59}.String())
	require.Equal(t, "07:05:09", TimeValue{7, 5, 9}.String())
}

func TestTimeValueDigits(t *testing.T) {
	require.Equal(t, [DisplayDigits]uint8{1, 2, 3, 4, 5, 6}, TimeValue{12, 34, 56}.Digits())
	require.Equal(t, [DisplayDigits]uint8{0, 0, 0, 0, 0, 0}, TimeValue{}.Digits())

	for _, d := range (TimeValue{23, 59, 59}).Digits() {
		require.Less(t, d, uint8(10))
	}
}

func TestTimeValueValid(t *testing.T) {
	require.True(t, TimeValue{23, 59, 59}.Valid())
	require.False(t, TimeValue{Hours: 24}.Valid())
	require.False(t, TimeValue{Minutes: 60}.Valid())
	require.False(t, TimeValue{Seconds: 60}.Valid())
}

func TestDecrementStopsAtZero(t *testing.T) {
	v := TimeValue{Hours: 1}
	require.True(t, v.decrement())
	require.Equal(t, TimeValue{0, 59, 59}, v)

	v = TimeValue{}
	require.False(t, v.decrement())
	require.True(t, v.IsZero())
}

func TestStepFieldWraps(t *testing.T) {
	require.Equal(t, uint8(0), stepField(23, HoursPerDay, true))
	require.Equal(t, uint8(23), stepField(0, HoursPerDay, false))
	require.Equal(t, uint8(0), stepField(59, MinutesPerHour, true))
	require.Equal(t, uint8(59), stepField(0, MinutesPerHour, false))
	require.Equal(t, uint8(11), stepField(10, SecondsPerMinute, true))
	require.Equal(t, uint8(9), stepField(10, SecondsPerMinute, false))
}
