package engine

import (
	"context"
	"fmt"
	"time"
)

// DefaultPeriod is the default tick period (~10 ticks per second).
const DefaultPeriod = 100 * time.Millisecond

// Pacer decides how long to wait after a tick body.
type Pacer interface {
	// Wait blocks after a tick whose body took elapsed.
	Wait(ctx context.Context, elapsed time.Duration) error
}

// Pacing names a Pacer implementation in configuration.
type Pacing string

const (
	// PacingFixed sleeps the full period after every tick. The actual tick
	// rate is period + processing time.
	PacingFixed Pacing = "fixed"

	// PacingMonotonic sleeps period - elapsed, clamped to zero.
	PacingMonotonic Pacing = "monotonic"
)

// ParsePacing validates a pacing name.
func ParsePacing(s string) (Pacing, error) {
	switch p := Pacing(s); p {
	case PacingFixed, PacingMonotonic:
		return p, nil
	}
	return "", fmt.Errorf("invalid pacing %q: must be %q or %q", s, PacingFixed, PacingMonotonic)
}

// NewPacer returns the Pacer for the given mode.
func NewPacer(mode Pacing, period time.Duration, clock Clock) (Pacer, error) {
	if period <= 0 {
		return nil, fmt.Errorf("invalid tick period %s: must be positive", period)
	}
	switch mode {
	case PacingFixed, "":
		return FixedPacer{Period: period, Clock: clock}, nil
	case PacingMonotonic:
		return MonotonicPacer{Period: period, Clock: clock}, nil
	}
	return nil, fmt.Errorf("invalid pacing %q", mode)
}

// FixedPacer sleeps Period after every tick regardless of how long the tick
// took. It does not correct drift.
type FixedPacer struct {
	Period time.Duration
	Clock  Clock
}

// Wait sleeps for the full period.
func (p FixedPacer) Wait(ctx context.Context, _ time.Duration) error {
	return clockOrSystem(p.Clock).Sleep(ctx, p.Period)
}

// MonotonicPacer holds the tick rate at 1/Period as long as ticks finish
// within the period. Slow ticks are followed immediately by the next one.
type MonotonicPacer struct {
	Period time.Duration
	Clock  Clock
}

// Wait sleeps for whatever is left of the period.
func (p MonotonicPacer) Wait(ctx context.Context, elapsed time.Duration) error {
	d := p.Period - elapsed
	if d < 0 {
		d = 0
	}
	return clockOrSystem(p.Clock).Sleep(ctx, d)
}

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}
	return c
}
