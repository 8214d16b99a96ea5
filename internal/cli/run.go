package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/tickql/internal/config"
	"github.com/roach88/tickql/internal/display"
	"github.com/roach88/tickql/internal/engine"
	"github.com/roach88/tickql/internal/input"
	"github.com/roach88/tickql/internal/store"
)

// runSetup is everything a run needs before the engine is built.
type runSetup struct {
	cfg    config.Config
	script string
	store  *store.Store
	logger *slog.Logger
}

// prepareRun loads the script and configuration, then opens the store.
// Nothing is opened when the script or configuration is bad.
func prepareRun(cmd *cobra.Command, opts *RootOptions, scriptPath, storePath string) (*runSetup, error) {
	logger := setupLogger(opts.Verbose, cmd.ErrOrStderr())

	script, err := loadScript(scriptPath)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to load script", err)
	}

	cfg, err := opts.loadConfig(cmd.Flags())
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid configuration", err)
	}

	logger.Debug("opening store", "path", storePath)
	st, err := store.Open(storePath)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to open store", err)
	}

	return &runSetup{cfg: cfg, script: script, store: st, logger: logger}, nil
}

// surface is an interactive display: the engine's input source and render
// sink, driven by a loop that must own the calling goroutine.
type surface interface {
	input.Source
	engine.Sink
	// Run blocks until the surface is closed or fails.
	Run() error
	// Ready is closed once the surface is up and can take frames and input.
	Ready() <-chan struct{}
}

// newSurface builds the window of a run. Replaced in tests.
var newSurface = func(cfg config.Config) surface {
	return display.NewWindow(cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Scale, cfg.Title)
}

// runGame opens the window on the calling goroutine and runs the engine on
// another one until the player quits, the script halts or a signal arrives.
func runGame(cmd *cobra.Command, opts *RootOptions, scriptPath, storePath string) error {
	rs, err := prepareRun(cmd, opts, scriptPath, storePath)
	if err != nil {
		return err
	}

	engOpts, err := rs.cfg.EngineOptions(nil)
	if err != nil {
		rs.store.Close()
		return WrapExitError(ExitFailure, "invalid configuration", err)
	}
	engOpts = append(engOpts, engine.WithLogger(rs.logger))

	win := newSurface(rs.cfg)
	eng := engine.New(rs.store, rs.script, win, win, engOpts...)

	ctx, cancel := withSignals(cmd.Context())
	defer cancel()

	return playGame(ctx, eng, win, rs.logger)
}

// playGame runs win on the calling goroutine. The engine is initialized and
// started only after win is ready; when win stops before that, the engine
// is drained without running a tick.
func playGame(parent context.Context, eng *engine.Engine, win surface, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	type outcome struct {
		started bool
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		select {
		case <-win.Ready():
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			if derr := eng.Drain(); derr != nil {
				logger.Error("error draining engine", "error", derr)
			}
			done <- outcome{err: err}
			return
		}
		done <- outcome{started: true, err: eng.Run(ctx)}
	}()

	// Returns once the engine drains and closes the window, or when the
	// window fails.
	winErr := win.Run()
	cancel()
	res := <-done

	if winErr != nil {
		return WrapExitError(ExitFailure, "window failed", winErr)
	}
	if !res.started && parent.Err() == nil {
		return NewExitError(ExitFailure, "window closed before it started")
	}
	return runResult(res.err)
}

// runResult maps the result of Engine.Run to the command result. Quit, tick
// limit and signals end the run cleanly.
func runResult(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return WrapExitError(ExitFailure, "engine stopped", err)
}

// withSignals returns a context cancelled on SIGINT or SIGTERM.
func withSignals(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
