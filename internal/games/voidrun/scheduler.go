package voidrun

import (
	"sync"
	"time"
)

// FrameFunc is a frame callback. now is the host's frame timestamp.
type FrameFunc func(now time.Time)

// Scheduler delivers frame callbacks. Each RequestFrame schedules exactly
// one future call of fn; a newer request replaces one not yet delivered.
// RequestFrame must return without calling fn.
type Scheduler interface {
	RequestFrame(fn FrameFunc)
}

// TimerScheduler fires frame callbacks from a timer at a fixed rate.
// Callbacks never run concurrently with each other.
type TimerScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending FrameFunc
	closed  bool

	run sync.Mutex // Serializes callbacks
}

// NewTimerScheduler creates a scheduler targeting fps frames per second.
func NewTimerScheduler(fps int) *TimerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TimerScheduler{interval: time.Second / time.Duration(fps)}
}

// RequestFrame schedules fn one interval from now.
func (s *TimerScheduler) RequestFrame(fn FrameFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = fn
	if s.timer == nil {
		s.timer = time.AfterFunc(s.interval, s.fire)
		return
	}
	s.timer.Reset(s.interval)
}

func (s *TimerScheduler) fire() {
	s.mu.Lock()
	fn := s.pending
	s.pending = nil
	closed := s.closed
	s.mu.Unlock()
	if fn == nil || closed {
		return
	}

	s.run.Lock()
	defer s.run.Unlock()
	fn(time.Now())
}

// Close stops the timer and drops any pending callback.
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
	}
}
