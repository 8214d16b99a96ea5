package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickql/internal/config"
	"github.com/roach88/tickql/internal/engine"
	"github.com/roach88/tickql/internal/frame"
	"github.com/roach88/tickql/internal/input"
	"github.com/roach88/tickql/internal/store"
	"github.com/roach88/tickql/internal/testutil"
)

// fakeSurface stands in for the window. Run fails with failWith, or becomes
// ready (unless neverReady is set) and blocks until Close.
type fakeSurface struct {
	failWith   error
	neverReady bool
	quitAt     int

	ready     chan struct{}
	closed    chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	polls  int
	frames int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{ready: make(chan struct{}), closed: make(chan struct{})}
}

func (f *fakeSurface) Run() error {
	if f.failWith != nil {
		return f.failWith
	}
	if !f.neverReady {
		close(f.ready)
	}
	<-f.closed
	return nil
}

func (f *fakeSurface) Ready() <-chan struct{} { return f.ready }

func (f *fakeSurface) PollEvents() []input.RawEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.quitAt > 0 && f.polls >= f.quitAt {
		return []input.RawEvent{input.Quit()}
	}
	return nil
}

func (f *fakeSurface) Paint(frame.Grid) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	return nil
}

func (f *fakeSurface) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeSurface) painted() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

// useSurface makes runGame build f instead of a window.
func useSurface(t *testing.T, f *fakeSurface) {
	t.Helper()
	prev := newSurface
	newSurface = func(config.Config) surface { return f }
	t.Cleanup(func() { newSurface = prev })
}

func tableExists(t *testing.T, storePath, name string) bool {
	t.Helper()
	st, err := store.Open(storePath)
	require.NoError(t, err)
	defer st.Close()
	ok, err := st.TableExists(context.Background(), name)
	require.NoError(t, err)
	return ok
}

func TestRunResult(t *testing.T) {
	assert.NoError(t, runResult(nil), "quit or tick limit")
	assert.NoError(t, runResult(context.Canceled), "signal")
	assert.NoError(t, runResult(fmt.Errorf("stopping: %w", context.Canceled)))

	scriptErr := &engine.RuntimeError{Code: engine.ErrCodeScriptFailed, Message: "logic script failed", Tick: 3}
	err := runResult(scriptErr)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, engine.IsScriptError(err))

	assert.Equal(t, ExitFailure, GetExitCode(runResult(errors.New("boom"))))
}

func TestWithSignals_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := withSignals(parent)
	defer cancel()

	cancelParent()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestRunGame_WindowFailsBeforeReady(t *testing.T) {
	dir := t.TempDir()
	scriptPath := writeFile(t, dir, "game.sql", movingPixel)
	storePath := filepath.Join(dir, "game.db")

	win := newFakeSurface()
	win.failWith = errors.New("no display")
	useSurface(t, win)

	_, _, err := execute(t, "--period", "1ms", scriptPath, storePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "window failed")

	assert.False(t, tableExists(t, storePath, "player"), "no tick ran")
	assert.False(t, tableExists(t, storePath, store.InputEventsTable), "engine never initialized")
	assert.Zero(t, win.painted())
}

func TestRunGame_TicksOnceReady(t *testing.T) {
	dir := t.TempDir()
	scriptPath := writeFile(t, dir, "game.sql", movingPixel)
	storePath := filepath.Join(dir, "game.db")

	win := newFakeSurface()
	win.quitAt = 3
	useSurface(t, win)

	_, _, err := execute(t, "--period", "1ms", scriptPath, storePath)
	require.NoError(t, err)

	assert.True(t, tableExists(t, storePath, "player"))
	assert.Equal(t, 2, win.painted(), "the quit tick paints nothing")
}

func TestPlayGame_CancelledBeforeReady(t *testing.T) {
	st := testutil.NewMemoryStore(t, "")
	win := newFakeSurface()
	win.neverReady = true

	eng := engine.New(store.Borrowed{Store: st}, "CREATE TABLE ran(x INTEGER);", win, win)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.NoError(t, playGame(ctx, eng, win, logger), "a signal before the window is up is a clean exit")
	assert.Equal(t, engine.StateTerminated, eng.State())

	ok, err := st.TableExists(context.Background(), "ran")
	require.NoError(t, err)
	assert.False(t, ok)
}
