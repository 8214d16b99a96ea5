package testutil

import (
	"errors"
	"sync"

	"github.com/roach88/tickql/internal/frame"
)

// RecordingSink keeps a copy of every painted frame.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type RecordingSink struct {
	mu     sync.Mutex
	frames []frame.Grid
	closed int

	// FailPaint makes Paint return an error (the frame is still recorded).
	FailPaint bool
}

// Paint records a deep copy of g.
func (s *RecordingSink) Paint(g frame.Grid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, g.Clone())
	if s.FailPaint {
		return errors.New("paint failed")
	}
	return nil
}

// Close counts calls.
func (s *RecordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Frames returns every painted frame in order.
func (s *RecordingSink) Frames() []frame.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]frame.Grid, len(s.frames))
	copy(out, s.frames)
	return out
}

// Last returns the most recent frame and whether one exists.
func (s *RecordingSink) Last() (frame.Grid, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return frame.Grid{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Closed returns how many times Close was called.
func (s *RecordingSink) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
