package engine

import (
	"context"
	"time"
)

// Clock is the engine's time source. The pacing wait is the only place the
// engine blocks on time, so swapping the Clock makes runs instantaneous and
// deterministic in tests.
type Clock interface {
	// Now returns the current time. Only differences between calls are used.
	Now() time.Time

	// Sleep blocks for d or until ctx is done, whichever comes first.
	// Returns ctx.Err() if the context ended the wait.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the wall clock.
//
// Thread-safety: SystemClock is stateless and safe for concurrent use.
type SystemClock struct{}

// Now returns time.Now(), which carries a monotonic reading.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep waits on a timer. A non-positive duration returns immediately.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
