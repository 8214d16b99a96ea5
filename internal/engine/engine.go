package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/tickql/internal/frame"
	"github.com/roach88/tickql/internal/input"
)

// Store is the relational store surface the engine drives.
// Implemented by *store.Store; tests may substitute an in-memory store.
type Store interface {
	EnsureInputEvents(ctx context.Context) error
	PurgeInputEvents(ctx context.Context) error
	InsertInputEvent(ctx context.Context, code string) error
	Exec(ctx context.Context, batch string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

// Sink paints projected frames. Implemented by the display package.
type Sink interface {
	Paint(g frame.Grid) error
	Close() error
}

// Engine is the single-threaded tick loop.
//
// The engine owns the store handle, the logic script and the sink for its
// whole lifetime and releases them exactly once, in Drain.
//
// Thread-safety model:
//   - Init(), Step(), Run(), Drain(): must be called from exactly one goroutine
//   - State(), Tick(), Session(): safe from any goroutine
//
// INVARIANTS:
//   - input_events only ever holds codes polled during the current tick
//   - the script never runs before the tick's input is recorded
//   - the sink only ever receives fully defined grids
type Engine struct {
	store  Store
	script string
	sink   Sink
	bridge *input.Bridge

	src     input.Source
	keymap  *input.Keymap
	clock   Clock
	pacer   Pacer
	logger  *slog.Logger
	session string

	width    int
	height   int
	period   time.Duration
	policy   ScriptErrorPolicy
	maxTicks int64

	state atomic.Int32
	ticks atomic.Int64

	// grid is the in-memory mirror of the last projected framebuffer.
	grid frame.Grid

	// projectFailing suppresses repeated PROJECT_FAILED warnings while the
	// script has not created the framebuffer table yet.
	projectFailing bool
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithPeriod sets the tick period. Default: 100ms (DefaultPeriod).
// Ignored when WithPacer supplies a pacer.
func WithPeriod(d time.Duration) Option {
	return func(e *Engine) {
		e.period = d
	}
}

// WithPacer overrides the pacing strategy.
func WithPacer(p Pacer) Option {
	return func(e *Engine) {
		e.pacer = p
	}
}

// WithClock sets the time source used to measure tick duration and by the
// default pacer.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithGrid sets the logical grid size. Default: 32x32.
func WithGrid(width, height int) Option {
	return func(e *Engine) {
		e.width = width
		e.height = height
	}
}

// WithScriptErrorPolicy sets what a failing script does. Default: PolicyHalt.
func WithScriptErrorPolicy(p ScriptErrorPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithMaxTicks stops Run cleanly after n ticks. Zero means unlimited.
func WithMaxTicks(n int64) Option {
	return func(e *Engine) {
		e.maxTicks = n
	}
}

// WithKeymap sets the key bindings. Default: WASD.
func WithKeymap(km *input.Keymap) Option {
	return func(e *Engine) {
		e.keymap = km
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithSession sets the session ID generator. Default: UUIDv7Generator.
func WithSession(gen SessionGenerator) Option {
	return func(e *Engine) {
		e.session = gen.Generate()
	}
}

// New creates an Engine over an open store.
//
// script is the logic script text, executed verbatim every tick. src may be
// nil (no input); sink may be nil (frames are dropped).
//
// The engine takes ownership of st and sink: both are closed by Drain.
func New(st Store, script string, src input.Source, sink Sink, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		script: script,
		src:    src,
		sink:   sink,
		width:  frame.DefaultWidth,
		height: frame.DefaultHeight,
		period: DefaultPeriod,
		policy: PolicyHalt,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.sink == nil {
		e.sink = discardSink{}
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.pacer == nil {
		e.pacer = FixedPacer{Period: e.period, Clock: e.clock}
	}
	if e.session == "" {
		e.session = UUIDv7Generator{}.Generate()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("session", e.session)
	e.bridge = input.NewBridge(e.src, e.keymap, e.logger)
	e.grid = frame.NewGrid(e.width, e.height)

	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Tick returns the number of ticks started so far.
func (e *Engine) Tick() int64 {
	return e.ticks.Load()
}

// Session returns the session ID tagging this run's log lines.
func (e *Engine) Session() string {
	return e.session
}

// Grid returns a copy of the last projected frame.
// Must be called from the goroutine driving the engine, or after Run returns.
func (e *Engine) Grid() frame.Grid {
	return e.grid.Clone()
}

// Init prepares the store: input_events is created if absent.
//
// Any failure is fatal. The engine drains immediately and the returned error
// is a RuntimeError with code INIT_FAILED.
func (e *Engine) Init(ctx context.Context) error {
	if s := e.State(); s != StateInitializing {
		return fmt.Errorf("engine: init in state %s", s)
	}

	if err := e.store.EnsureInputEvents(ctx); err != nil {
		rerr := newRuntimeError(ErrCodeInitFailed, 0, "failed to create input_events", err)
		e.logger.Error("engine init failed", "error", rerr)
		if derr := e.Drain(); derr != nil {
			e.logger.Error("error draining after init failure", "error", derr)
		}
		return rerr
	}

	e.state.Store(int32(StateRunning))
	e.logger.Info("engine initialized",
		"grid", fmt.Sprintf("%dx%d", e.width, e.height),
		"policy", string(e.policy),
	)
	return nil
}

// Run drives ticks until a quit request, a fatal script error, context
// cancellation or the tick limit, then drains.
//
// Returns nil on quit or tick limit, ctx.Err() on cancellation and the
// RuntimeError on a fatal script failure. Errors while draining are logged
// and do not change the result.
//
// CRITICAL: Must be called from exactly ONE goroutine.
func (e *Engine) Run(ctx context.Context) error {
	if e.State() == StateInitializing {
		if err := e.Init(ctx); err != nil {
			return err
		}
	}
	if s := e.State(); s != StateRunning {
		return fmt.Errorf("engine: run in state %s", s)
	}

	err := e.loop(ctx)

	if derr := e.Drain(); derr != nil {
		e.logger.Error("error draining engine", "error", derr)
	}
	return err
}

func (e *Engine) loop(ctx context.Context) error {
	e.logger.Info("engine starting", "period", e.period)

	for {
		if err := ctx.Err(); err != nil {
			e.logger.Info("engine stopping: context cancelled", "tick", e.Tick())
			return err
		}
		if e.maxTicks > 0 && e.Tick() >= e.maxTicks {
			e.logger.Info("engine stopping: tick limit reached", "tick", e.Tick())
			return nil
		}

		start := e.clock.Now()
		more, err := e.Step(ctx)
		if err != nil {
			return err
		}
		if !more {
			e.logger.Info("engine stopping: quit requested", "tick", e.Tick())
			return nil
		}

		if err := e.pacer.Wait(ctx, e.clock.Now().Sub(start)); err != nil {
			e.logger.Info("engine stopping: context cancelled", "tick", e.Tick())
			return err
		}
	}
}

// Step runs one tick body. Returns false when the run should end: a quit
// request was polled or the script failed under PolicyHalt (err is then the
// RuntimeError).
func (e *Engine) Step(ctx context.Context) (bool, error) {
	if s := e.State(); s != StateRunning {
		return false, fmt.Errorf("engine: step in state %s", s)
	}
	tick := e.ticks.Add(1)

	// 1. Purge last tick's input. Failure leaves stale rows but is not fatal.
	if err := e.store.PurgeInputEvents(ctx); err != nil {
		e.logger.Warn("input purge failed",
			"error", newRuntimeError(ErrCodePurgeFailed, tick, "failed to clear input_events", err))
	}

	// 2. Poll and record this tick's input.
	batch := e.bridge.Poll()
	if batch.Quit {
		return false, nil
	}
	if n := e.bridge.Record(ctx, e.store, batch.Codes); n > 0 {
		e.logger.Debug("input recorded", "tick", tick, "rows", n)
	}

	// 3. Execute the logic script.
	if err := e.store.Exec(ctx, e.script); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return false, ctxErr
		}
		rerr := newRuntimeError(ErrCodeScriptFailed, tick, "logic script failed", err)
		if e.policy == PolicySkip {
			e.logger.Warn("script failed, skipping tick", "error", rerr)
			return true, nil
		}
		e.logger.Error("script failed, halting", "error", rerr)
		return false, rerr
	}

	// 4. Project and paint.
	e.grid = e.project(ctx, tick)
	if err := e.sink.Paint(e.grid); err != nil {
		e.logger.Warn("render failed",
			"error", newRuntimeError(ErrCodeRenderFailed, tick, "sink rejected frame", err))
	}

	return true, nil
}

// project reads the framebuffer. On failure an all-off grid is returned and
// the failure is logged once until projection succeeds again.
func (e *Engine) project(ctx context.Context, tick int64) frame.Grid {
	g, err := frame.Project(ctx, e.store, e.width, e.height)
	if err != nil {
		rerr := newRuntimeError(ErrCodeProjectFailed, tick, "failed to read framebuffer", err)
		if !e.projectFailing {
			e.logger.Warn("framebuffer projection failed", "error", rerr)
		} else {
			e.logger.Debug("framebuffer projection failed", "error", rerr)
		}
		e.projectFailing = true
		return g
	}
	if e.projectFailing {
		e.logger.Info("framebuffer projection recovered", "tick", tick)
		e.projectFailing = false
	}
	return g
}

// Drain releases the sink, then the store, and moves the engine to
// Terminated. Calling Drain again is a no-op.
func (e *Engine) Drain() error {
	if e.State() == StateTerminated {
		return nil
	}
	e.state.Store(int32(StateDraining))

	var errs []error
	if err := e.sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sink: %w", err))
	}
	if err := e.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	e.state.Store(int32(StateTerminated))
	e.logger.Info("engine terminated", "ticks", e.Tick())
	return errors.Join(errs...)
}

// discardSink drops every frame.
type discardSink struct{}

func (discardSink) Paint(frame.Grid) error { return nil }
func (discardSink) Close() error           { return nil }
