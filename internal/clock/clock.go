// Package clock provides the monotonic per-session time source that drives
// the frame loop.
package clock

import (
	"sync"
	"time"
)

// Clock reports time elapsed since the start of a session.
type Clock interface {
	Elapsed() time.Duration
}

// Session is a Clock backed by the runtime's monotonic clock. Time spent
// paused is excluded, so a session resumed after a pause continues where it
// left off.
type Session struct {
	mu       sync.Mutex
	start    time.Time
	paused   bool
	pausedAt time.Time
	offset   time.Duration
}

// NewSession starts a session clock at zero.
func NewSession() *Session {
	return &Session{start: time.Now()}
}

// Elapsed returns the running time of the session.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return s.pausedAt.Sub(s.start) - s.offset
	}
	return time.Since(s.start) - s.offset
}

// Pause freezes the clock. Pausing twice is a no-op.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return
	}
	s.paused = true
	s.pausedAt = time.Now()
}

// Resume restarts a paused clock.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.paused {
		return
	}
	s.offset += time.Since(s.pausedAt)
	s.paused = false
}

// Paused reports whether the clock is paused.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Manual is a Clock that only moves when told to. Replays and tests use it.
type Manual struct {
	mu  sync.Mutex
	now time.Duration
}

// NewManual creates a Manual clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Elapsed returns the current manual time.
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d. Negative values are ignored.
func (m *Manual) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
}

// Set moves the clock to t if t is later than the current time.
func (m *Manual) Set(t time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t > m.now {
		m.now = t
	}
}

// FrameTimer turns a Clock into per-frame (now, dt) pairs in seconds.
type FrameTimer struct {
	clock Clock
	last  time.Duration
	begun bool
}

// NewFrameTimer creates a FrameTimer reading from c.
func NewFrameTimer(c Clock) *FrameTimer {
	return &FrameTimer{clock: c}
}

// Next returns the elapsed session time and the time since the previous
// call. The first call reports dt = 0.
func (f *FrameTimer) Next() (now, dt float64) {
	t := f.clock.Elapsed()
	if f.begun && t > f.last {
		dt = (t - f.last).Seconds()
	}
	if !f.begun || t > f.last {
		f.last = t
	}
	f.begun = true
	return t.Seconds(), dt
}
