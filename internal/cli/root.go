package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/tickql/internal/config"
	"github.com/roach88/tickql/internal/display"
	"github.com/roach88/tickql/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose       bool
	ConfigPath    string
	Period        time.Duration
	Scale         int
	Pacing        *enumValue
	OnScriptError *enumValue
}

// NewRootCommand creates the root command. Without a subcommand it opens the
// game window.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{
		Pacing:        newEnumValue(string(engine.PacingFixed), string(engine.PacingFixed), string(engine.PacingMonotonic)),
		OnScriptError: newEnumValue(string(engine.PolicyHalt), string(engine.PolicyHalt), string(engine.PolicySkip)),
	}

	cmd := &cobra.Command{
		Use:   "tickql <script_path> <store_path>",
		Short: "tickql - a game engine whose game logic is SQL",
		Long: `Run a game whose logic is a SQL script.

Every tick the engine clears input_events, records the keys pressed since the
previous tick (W/A/S/D as U/L/D/R), executes the logic script against the
store and draws the framebuffer(x, y, pixel) table on a 32x32 grid.

The store file is created if it does not exist. Game state lives in it
between runs.

Example:
  tickql snake.sql snake.db
  tickql --period 50ms --scale 24 snake.sql snake.db
  tickql --config tickql.yaml --on-script-error skip snake.sql snake.db`,
		Args:          exactArgsWithUsage(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(cmd, opts, args[0], args[1])
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	flags.DurationVar(&opts.Period, "period", engine.DefaultPeriod, "tick period")
	flags.IntVar(&opts.Scale, "scale", display.DefaultScale, "window pixels per grid cell")
	flags.Var(opts.Pacing, "pacing", "tick pacing")
	flags.Var(opts.OnScriptError, "on-script-error", "what a failing logic script does")

	cmd.AddCommand(NewFrameCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// exactArgsWithUsage is cobra.ExactArgs that also prints usage to stderr,
// since SilenceUsage is set.
func exactArgsWithUsage(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			cmd.PrintErrln(cmd.UsageString())
			return WrapExitError(ExitFailure, "invalid arguments", err)
		}
		return nil
	}
}

// setupLogger installs a text slog handler on w as the default logger.
func setupLogger(verbose bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig builds the run configuration: defaults, then the --config file,
// then flags that were set explicitly.
func (o *RootOptions) loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if flags.Changed("period") {
		cfg.Period = o.Period
	}
	if flags.Changed("scale") {
		cfg.Grid.Scale = o.Scale
	}
	if flags.Changed("pacing") {
		cfg.Pacing = o.Pacing.String()
	}
	if flags.Changed("on-script-error") {
		cfg.OnScriptError = o.OnScriptError.String()
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
