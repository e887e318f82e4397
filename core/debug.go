package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures a state change for post-mortem analysis
type TraceEvent struct {
	EventType uint8  // Event type code
	ID        uint8  // Control or event identifier
	Clock     uint32 // Timer clock at event
	Value     uint32 // Register contents in seconds after the event
}

// Event type codes
const (
	EvtTick          = 1 // Tick engine ran
	EvtAlarm         = 2 // Count-down found 00:00:00
	EvtControl       = 3 // Reset/pause/resume applied
	EvtAdjust        = 4 // Adjustment control fired
	EvtQueueOverflow = 5 // Control event dropped
	EvtEdgeRejected  = 6 // Edge inside lockout window
	EvtRenderError   = 7 // Display returned an error
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]TraceEvent
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, a logger, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Messages from interrupt context are dropped; use RecordEvent there.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil && !InInterrupt() {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer.
// The caller holds the critical section.
func RecordEvent(eventType, id uint8, clock, value uint32) {
	idx := eventRingHead
	eventRing[idx] = TraceEvent{
		EventType: eventType,
		ID:        id,
		Clock:     clock,
		Value:     value,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// RecentEvents returns the ring contents from oldest to newest
func RecentEvents() []TraceEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	events := make([]TraceEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// DumpEventRing outputs the event ring through the debug writer
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TRACE] === Event Ring Dump ===")
	for _, evt := range RecentEvents() {
		debugPrintln("[TRACE] " + eventName(evt.EventType) +
			" id=" + itoa(int(evt.ID)) +
			" clock=" + utoa(evt.Clock) +
			" value=" + TimeFromSeconds(evt.Value).String())
	}
	debugPrintln("[TRACE] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range eventRing {
		eventRing[i] = TraceEvent{}
	}
	eventRingHead = 0
}

func eventName(eventType uint8) string {
	switch eventType {
	case EvtTick:
		return "TICK"
	case EvtAlarm:
		return "ALARM"
	case EvtControl:
		return "CONTROL"
	case EvtAdjust:
		return "ADJUST"
	case EvtQueueOverflow:
		return "QUEUE_OVERFLOW!"
	case EvtEdgeRejected:
		return "EDGE_REJECTED"
	case EvtRenderError:
		return "RENDER_ERROR"
	default:
		return "UNKNOWN"
	}
}
