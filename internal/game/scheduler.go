package game

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable pending callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// WallClock schedules on real time.
type WallClock struct{}

func (WallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler fires callbacks only when Advance is called. Callbacks run
// synchronously on the caller's goroutine, in due order.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, due: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, firing every timer that comes due,
// including timers scheduled by callbacks along the way.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		t := s.next(target)
		if t == nil {
			break
		}
		t.f()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

func (s *ManualScheduler) next(target time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.timers = live
	if len(live) == 0 {
		return nil
	}

	sort.Slice(live, func(i, j int) bool {
		if live[i].due != live[j].due {
			return live[i].due < live[j].due
		}
		return live[i].seq < live[j].seq
	})
	t := live[0]
	if t.due > target {
		return nil
	}
	t.fired = true
	s.now = t.due
	return t
}

// Pending reports how many timers are still armed.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
