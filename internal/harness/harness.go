package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/tickql/internal/engine"
	"github.com/roach88/tickql/internal/input"
	"github.com/roach88/tickql/internal/store"
	"github.com/roach88/tickql/internal/testutil"
)

// runner holds the collaborators of one scenario run.
type runner struct {
	engine *engine.Engine
	sink   *testutil.RecordingSink
	clock  *testutil.FakeClock
	logger *slog.Logger
}

// Option configures a harness run.
type Option func(*runner)

// WithLogger routes engine logs to l. Default: discarded.
func WithLogger(l *slog.Logger) Option {
	return func(h *runner) {
		h.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory store. Execution flow:
//  1. Create the store and the engine (scripted source, recording sink,
//     fake clock)
//  2. Init the engine, then run the setup SQL
//  3. Run until a quit tick, a fatal error or the last listed tick
//  4. Evaluate assertions against the final frame and store
//
// The returned error reports harness problems (bad setup SQL, store
// failures). Scenario failures are reported through Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &runner{
		sink:   &testutil.RecordingSink{},
		clock:  testutil.NewFakeClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	policy := engine.PolicyHalt
	if scenario.OnScriptError != "" {
		policy = engine.ScriptErrorPolicy(scenario.OnScriptError)
	}
	width, height := scenario.size()

	h.engine = engine.New(store.Borrowed{Store: st}, scenario.SQL, input.NewScriptedSource(scenario.events()), h.sink,
		engine.WithGrid(width, height),
		engine.WithClock(h.clock),
		engine.WithScriptErrorPolicy(policy),
		engine.WithMaxTicks(int64(len(scenario.Ticks))),
		engine.WithLogger(h.logger),
		engine.WithSession(engine.NewFixedGenerator("scenario-"+scenario.Name)),
	)

	ctx := context.Background()
	result := NewResult()

	if err := h.engine.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init engine: %w", err)
	}
	if scenario.Setup != "" {
		if err := st.Exec(ctx, scenario.Setup); err != nil {
			_ = h.engine.Drain()
			return nil, fmt.Errorf("failed to execute setup: %w", err)
		}
	}

	runErr := h.engine.Run(ctx)
	if runErr != nil {
		code := engine.ErrorCode(runErr)
		if code == "" {
			return nil, fmt.Errorf("engine run failed: %w", runErr)
		}
		result.ErrorCode = string(code)
	}
	if result.ErrorCode != scenario.ExpectError {
		result.AddError(fmt.Sprintf("run ended with error %q, want %q", result.ErrorCode, scenario.ExpectError))
	}

	result.Ticks = h.engine.Tick()
	result.Frames = len(h.sink.Frames())
	result.Grid = h.engine.Grid()
	rows, err := st.InputEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read input events: %w", err)
	}
	result.InputRows = rows

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
