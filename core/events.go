package core

// Event is a control signal delivered by an edge-triggered input
type Event uint8

const (
	EventNone Event = iota
	EventReset
	EventPause
	EventResume
)

func (e Event) String() string {
	switch e {
	case EventReset:
		return "reset"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	default:
		return "none"
	}
}

// EventQueueSize bounds the number of control events waiting for the
// foreground loop
const EventQueueSize = 8

// queuedEvent is a control event with the clock it arrived at
type queuedEvent struct {
	event Event
	at    uint32
}

// EventQueue is a fixed ring of control events. Push is safe from interrupt
// context; events are popped in arrival order.
type EventQueue struct {
	ring     [EventQueueSize]queuedEvent
	head     uint8 // Next read position
	count    uint8
	overflow uint32 // Events dropped because the ring was full
}

// Push appends an event seen at clock at. Returns false and counts an
// overflow when full.
func (q *EventQueue) Push(e Event, at uint32) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return q.push(e, at)
}

// push runs with the critical section held
func (q *EventQueue) push(e Event, at uint32) bool {
	if q.count == EventQueueSize {
		q.overflow++
		return false
	}
	q.ring[(q.head+q.count)%EventQueueSize] = queuedEvent{event: e, at: at}
	q.count++
	return true
}

// Pop removes the oldest event. ok is false when the queue is empty.
func (q *EventQueue) Pop() (e Event, at uint32, ok bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if q.count == 0 {
		return EventNone, 0, false
	}
	qe := q.ring[q.head]
	q.head = (q.head + 1) % EventQueueSize
	q.count--
	return qe.event, qe.at, true
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return int(q.count)
}

// Overflows returns the number of dropped events
func (q *EventQueue) Overflows() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return q.overflow
}

// EdgeFilter turns the bouncing edges of one physical press into a single
// logical event: after an accepted edge, further edges are ignored until the
// lockout window has passed.
type EdgeFilter struct {
	Lockout  uint32 // Window in clock cycles
	last     uint32
	accepted bool
}

// NewEdgeFilter returns a filter with the given lockout window
func NewEdgeFilter(lockout uint32) EdgeFilter {
	return EdgeFilter{Lockout: lockout}
}

// Accept reports whether an edge seen at now is a new logical event
func (f *EdgeFilter) Accept(now uint32) bool {
	if f.accepted && now-f.last < f.Lockout {
		return false
	}
	f.last = now
	f.accepted = true
	return true
}
