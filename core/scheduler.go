package core

// Timer represents a scheduled foreground event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler keeps foreground timers sorted by wake time. It runs in the
// main loop only; interrupt handlers never touch it.
type Scheduler struct {
	timerList *Timer
	now       uint32
}

// NewScheduler returns an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the time of the last dispatch
func (s *Scheduler) Now() uint32 {
	return s.now
}

// timeBefore compares wake times modulo 2^32
func timeBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// Schedule adds a timer to the schedule
func (s *Scheduler) Schedule(t *Timer) {
	t.Next = nil
	if s.timerList == nil || timeBefore(t.WakeTime, s.timerList.WakeTime) {
		t.Next = s.timerList
		s.timerList = t
		return
	}

	current := s.timerList
	for current.Next != nil && !timeBefore(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// Cancel removes a timer if it is scheduled
func (s *Scheduler) Cancel(t *Timer) {
	if s.timerList == t {
		s.timerList = t.Next
		t.Next = nil
		return
	}
	for current := s.timerList; current != nil; current = current.Next {
		if current.Next == t {
			current.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// Pending returns the number of scheduled timers
func (s *Scheduler) Pending() int {
	n := 0
	for current := s.timerList; current != nil; current = current.Next {
		n++
	}
	return n
}

// Dispatch runs every timer due at or before now.
// Handlers returning SF_RESCHEDULE must have moved their WakeTime forward.
func (s *Scheduler) Dispatch(now uint32) {
	s.now = now

	for s.timerList != nil && !timeBefore(now, s.timerList.WakeTime) {
		timer := s.timerList
		s.timerList = timer.Next
		timer.Next = nil

		if timer.Handler(timer) == SF_RESCHEDULE {
			s.Schedule(timer)
		}
	}
}
