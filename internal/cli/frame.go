package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tickql/internal/display"
	"github.com/roach88/tickql/internal/engine"
	"github.com/roach88/tickql/internal/frame"
	"github.com/roach88/tickql/internal/input"
	"github.com/roach88/tickql/internal/store"
)

// FrameOptions holds flags for the frame command.
type FrameOptions struct {
	*RootOptions
	Ticks     int
	Input     string
	Watch     bool
	DumpInput bool
	Paced     bool
}

// NewFrameCommand creates the frame command.
func NewFrameCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FrameOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "frame <script_path> <store_path>",
		Short: "Run ticks headless and print the frame",
		Long: `Run the game without a window for a fixed number of ticks and print
the final frame as text ('#' lit, '.' off).

Input is given per tick: ticks are separated by ",", keys within a tick by
"+", and "quit" requests a quit. Ticks are not paced unless --paced is set.

Example:
  tickql frame snake.sql snake.db --ticks 3
  tickql frame snake.sql snake.db --ticks 4 --input "D,D,,S" --watch
  tickql frame snake.sql snake.db --ticks 1 --input "W+A" --dump-input`,
		Args:          exactArgsWithUsage(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrame(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().IntVar(&opts.Ticks, "ticks", 1, "number of ticks to run")
	cmd.Flags().StringVar(&opts.Input, "input", "", `keys per tick, e.g. "W,,A+D,quit"`)
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "print every frame instead of the last")
	cmd.Flags().BoolVar(&opts.DumpInput, "dump-input", false, "print input_events after the last tick")
	cmd.Flags().BoolVar(&opts.Paced, "paced", false, "sleep between ticks like a windowed run")

	return cmd
}

func runFrame(cmd *cobra.Command, opts *FrameOptions, scriptPath, storePath string) error {
	if opts.Ticks <= 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("--ticks must be positive, got %d", opts.Ticks))
	}
	ticks, err := input.ParseTicks(opts.Input)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid --input", err)
	}

	rs, err := prepareRun(cmd, opts.RootOptions, scriptPath, storePath)
	if err != nil {
		return err
	}
	defer rs.store.Close()

	engOpts, err := rs.cfg.EngineOptions(nil)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid configuration", err)
	}
	engOpts = append(engOpts,
		engine.WithMaxTicks(int64(opts.Ticks)),
		engine.WithLogger(rs.logger),
	)
	if !opts.Paced {
		engOpts = append(engOpts, engine.WithPacer(noWait{}))
	}

	out := cmd.OutOrStdout()
	var sink engine.Sink
	if opts.Watch {
		sink = display.NewText(out)
	}

	eng := engine.New(store.Borrowed{Store: rs.store}, rs.script, input.NewScriptedSource(ticks), sink, engOpts...)

	ctx, cancel := withSignals(cmd.Context())
	defer cancel()

	if err := runResult(eng.Run(ctx)); err != nil {
		return err
	}

	readCtx := context.WithoutCancel(ctx)
	if ok, err := rs.store.TableExists(readCtx, frame.Table); err == nil && !ok {
		rs.logger.Warn("script never created the framebuffer table; nothing was drawn")
	}

	if !opts.Watch {
		fmt.Fprint(out, eng.Grid().String())
	}
	if opts.DumpInput {
		rows, err := rs.store.InputEvents(readCtx)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read input_events", err)
		}
		fmt.Fprintf(out, "input_events: [%s]\n", strings.Join(rows, " "))
	}
	return nil
}

// noWait paces nothing; headless runs go as fast as the store allows.
type noWait struct{}

func (noWait) Wait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

var _ engine.Pacer = noWait{}
