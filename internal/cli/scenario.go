package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/tickql/internal/harness"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	Format *enumValue
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Ticks  int64    `json:"ticks"`
	Errors []string `json:"errors,omitempty"`
}

// ScenarioReport holds the overall result.
type ScenarioReport struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{
		RootOptions: rootOpts,
		Format:      newEnumValue(FormatText, FormatText, FormatJSON),
	}

	cmd := &cobra.Command{
		Use:   "scenario <file.yaml|dir>...",
		Short: "Run YAML game scenarios",
		Long: `Run scripted game scenarios headless and check their assertions.

Each scenario runs its logic script in a fresh in-memory store with the key
presses it lists per tick, then checks the final frame and input_events.
Directories are searched for .yaml and .yml files.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed, or a scenario could not be loaded

Examples:
  tickql scenario testdata/scenarios/moving_pixel.yaml
  tickql scenario testdata/scenarios --format json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				cmd.PrintErrln(cmd.UsageString())
				return WrapExitError(ExitFailure, "invalid arguments", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, opts, args)
		},
	}

	cmd.Flags().Var(opts.Format, "format", "output format")

	return cmd
}

func runScenarios(cmd *cobra.Command, opts *ScenarioOptions, paths []string) error {
	logger := setupLogger(opts.Verbose, cmd.ErrOrStderr())

	files, err := findScenarioFiles(paths)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to find scenarios", err)
	}

	var runOpts []harness.Option
	if opts.Verbose {
		runOpts = append(runOpts, harness.WithLogger(logger))
	}

	report := ScenarioReport{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	for _, file := range files {
		res := runScenarioFile(file, runOpts)
		report.Scenarios = append(report.Scenarios, res)
		if res.Pass {
			report.Passed++
		} else {
			report.Failed++
		}
	}

	out := cmd.OutOrStdout()
	if opts.Format.String() == FormatJSON {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		writeScenarioText(out, report)
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", report.Failed, report.Total))
	}
	return nil
}

// findScenarioFiles expands directories into their YAML files. Explicit
// file arguments are kept whatever their extension.
func findScenarioFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ext := filepath.Ext(p); ext == ".yaml" || ext == ".yml" {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// runScenarioFile loads and runs one scenario. Load and harness errors are
// reported as a failed scenario.
func runScenarioFile(file string, opts []harness.Option) ScenarioResult {
	res := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		res.Errors = []string{err.Error()}
		return res
	}
	res.Name = scenario.Name

	result, err := harness.Run(scenario, opts...)
	if err != nil {
		res.Errors = []string{err.Error()}
		return res
	}
	res.Pass = result.Pass
	res.Ticks = result.Ticks
	if !result.Pass {
		res.Errors = result.Errors
	}
	return res
}

func writeScenarioText(w io.Writer, report ScenarioReport) {
	for _, s := range report.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "PASS %s (%d ticks)\n", s.Name, s.Ticks)
			continue
		}
		fmt.Fprintf(w, "FAIL %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", report.Passed, report.Failed, report.Total)
}
