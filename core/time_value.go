package core

// Field limits for the time register
const (
	HoursPerDay      = 24
	MinutesPerHour   = 60
	SecondsPerMinute = 60
	SecondsPerDay    = HoursPerDay * MinutesPerHour * SecondsPerMinute
)

// DisplayDigits is the number of BCD digits driven by the display (HH MM SS)
const DisplayDigits = 6

// TimeValue is the hours/minutes/seconds triple shown on the display.
// Hours are 0-23, minutes and seconds are 0-59.
type TimeValue struct {
	Hours   uint8
	Minutes uint8
	Seconds uint8
}

// TimeFromSeconds builds a TimeValue from a second count, wrapping at 24 hours
func TimeFromSeconds(n uint32) TimeValue {
	n %= SecondsPerDay
	return TimeValue{
		Hours:   uint8(n / (MinutesPerHour * SecondsPerMinute)),
		Minutes: uint8((n / SecondsPerMinute) % MinutesPerHour),
		Seconds: uint8(n % SecondsPerMinute),
	}
}

// TotalSeconds returns the number of seconds since 00:00:00
func (t TimeValue) TotalSeconds() uint32 {
	return uint32(t.Hours)*MinutesPerHour*SecondsPerMinute +
		uint32(t.Minutes)*SecondsPerMinute +
		uint32(t.Seconds)
}

// IsZero reports whether the value is 00:00:00
func (t TimeValue) IsZero() bool {
	return t.Hours == 0 && t.Minutes == 0 && t.Seconds == 0
}

// Valid reports whether every field is within range
func (t TimeValue) Valid() bool {
	return t.Hours < HoursPerDay && t.Minutes < MinutesPerHour && t.Seconds < SecondsPerMinute
}

// Digits returns the six BCD digits in display order: H H M M S S
func (t TimeValue) Digits() [DisplayDigits]uint8 {
	return [DisplayDigits]uint8{
		t.Hours / 10, t.Hours % 10,
		t.Minutes / 10, t.Minutes % 10,
		t.Seconds / 10, t.Seconds % 10,
	}
}

// String formats the value as HH:MM:SS
func (t TimeValue) String() string {
	d := t.Digits()
	buf := [8]byte{
		'0' + d[0], '0' + d[1], ':',
		'0' + d[2], '0' + d[3], ':',
		'0' + d[4], '0' + d[5],
	}
	return string(buf[:])
}

// increment advances by one second with the seconds→minutes→hours carry chain
func (t *TimeValue) increment() {
	t.Seconds++
	if t.Seconds < SecondsPerMinute {
		return
	}
	t.Seconds = 0
	t.Minutes++
	if t.Minutes < MinutesPerHour {
		return
	}
	t.Minutes = 0
	t.Hours++
	if t.Hours >= HoursPerDay {
		t.Hours = 0
	}
}

// decrement steps back one second, borrowing from minutes then hours.
// Returns false without modifying the value when it is already 00:00:00.
func (t *TimeValue) decrement() bool {
	switch {
	case t.Seconds > 0:
		t.Seconds--
	case t.Minutes > 0:
		t.Minutes--
		t.Seconds = SecondsPerMinute - 1
	case t.Hours > 0:
		t.Hours--
		t.Minutes = MinutesPerHour - 1
		t.Seconds = SecondsPerMinute - 1
	default:
		return false
	}
	return true
}

// stepField moves a field one step up or down, wrapping at limit
func stepField(v uint8, limit uint8, up bool) uint8 {
	if up {
		return (v + 1) % limit
	}
	if v == 0 {
		return limit - 1
	}
	return v - 1
}
