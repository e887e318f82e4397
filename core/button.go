package core

// Button debounces one level-polled control and generates auto-repeat
// while it is held. All times are in timer input clock cycles.
type Button struct {
	Debounce       uint32 // Level must be stable this long to count
	RepeatDelay    uint32 // Hold time before the first repeat
	RepeatInterval uint32 // Time between repeats
	Repeat         bool   // Auto-repeat while held

	raw        bool
	rawSince   uint32
	stable     bool
	nextRepeat uint32
}

// Update samples the control level at now and reports whether the control
// fired: once on the debounced press, then once per repeat while held.
func (b *Button) Update(level bool, now uint32) bool {
	if level != b.raw {
		b.raw = level
		b.rawSince = now
	}

	if b.raw != b.stable {
		if now-b.rawSince < b.Debounce {
			return false
		}
		b.stable = b.raw
		if b.stable {
			b.nextRepeat = now + b.RepeatDelay
			return true
		}
		return false
	}

	if !b.stable || !b.Repeat || timeBefore(now, b.nextRepeat) {
		return false
	}

	b.nextRepeat += b.RepeatInterval
	if timeBefore(b.nextRepeat, now) {
		// Fell behind (slow poll); don't burst to catch up
		b.nextRepeat = now + b.RepeatInterval
	}
	return true
}

// Held reports the debounced level
func (b *Button) Held() bool {
	return b.stable
}
