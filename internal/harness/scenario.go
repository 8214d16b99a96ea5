package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tickql/internal/engine"
	"github.com/roach88/tickql/internal/frame"
	"github.com/roach88/tickql/internal/input"
)

// Scenario defines a scripted game run and the frame it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Script is the path of the logic script, relative to the scenario file.
	// Exactly one of Script and SQL must be set.
	Script string `yaml:"script,omitempty"`

	// SQL is an inline logic script.
	SQL string `yaml:"sql,omitempty"`

	// Setup runs once after engine init and before the first tick.
	Setup string `yaml:"setup,omitempty"`

	// Grid is the logical grid size. Zero values mean 32.
	Grid GridSize `yaml:"grid,omitempty"`

	// OnScriptError is "halt" (default) or "skip".
	OnScriptError string `yaml:"on_script_error,omitempty"`

	// Ticks lists the key names pressed during each tick. "quit" requests
	// a quit. The run stops after the last listed tick.
	Ticks [][]string `yaml:"ticks"`

	// ExpectError is the RuntimeError code the run must end with, e.g.
	// "SCRIPT_FAILED". Empty means the run must end cleanly.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the final frame and store.
	Assertions []Assertion `yaml:"assertions"`
}

// GridSize is the scenario's logical grid.
type GridSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Assertion validates the outcome of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// X and Y address a cell (cell_on, cell_off).
	X int `yaml:"x,omitempty"`
	Y int `yaml:"y,omitempty"`

	// Count is the expected number (lit_count, tick_count).
	Count int `yaml:"count,omitempty"`

	// Rows are the expected input_events codes in insertion order (input_rows).
	Rows []string `yaml:"rows,omitempty"`
}

// Assertion type constants.
const (
	AssertCellOn    = "cell_on"
	AssertCellOff   = "cell_off"
	AssertLitCount  = "lit_count"
	AssertInputRows = "input_rows"
	AssertTickCount = "tick_count"
)

var validAssertionTypes = map[string]bool{
	AssertCellOn:    true,
	AssertCellOff:   true,
	AssertLitCount:  true,
	AssertInputRows: true,
	AssertTickCount: true,
}

// LoadScenario reads a scenario file, resolves its script path and validates
// it. Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if s.Script != "" {
		scriptPath := s.Script
		if !filepath.IsAbs(scriptPath) {
			scriptPath = filepath.Join(filepath.Dir(path), scriptPath)
		}
		script, err := os.ReadFile(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read script: %w", path, err)
		}
		s.SQL = string(script)
	}
	return s, nil
}

// ParseScenario decodes and validates a scenario. A Script path is left
// unresolved; use LoadScenario to read it.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks required fields and assertion shapes.
func (s *Scenario) Validate() error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if (s.Script == "") == (s.SQL == "") {
		errs = append(errs, errors.New("exactly one of script and sql is required"))
	}
	if s.Grid.Width < 0 || s.Grid.Height < 0 {
		errs = append(errs, fmt.Errorf("grid: negative size %dx%d", s.Grid.Width, s.Grid.Height))
	}
	if s.OnScriptError != "" {
		if _, err := engine.ParseScriptErrorPolicy(s.OnScriptError); err != nil {
			errs = append(errs, err)
		}
	}
	if len(s.Ticks) == 0 {
		errs = append(errs, errors.New("at least one tick is required"))
	}
	for i, a := range s.Assertions {
		if !validAssertionTypes[a.Type] {
			errs = append(errs, fmt.Errorf("assertion %d: unknown type %q", i, a.Type))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid scenario: %w", errors.Join(errs...))
	}
	return nil
}

// size returns the grid size with defaults applied.
func (s *Scenario) size() (int, int) {
	w, h := s.Grid.Width, s.Grid.Height
	if w == 0 {
		w = frame.DefaultWidth
	}
	if h == 0 {
		h = frame.DefaultHeight
	}
	return w, h
}

// events converts Ticks to raw input events.
func (s *Scenario) events() [][]input.RawEvent {
	out := make([][]input.RawEvent, len(s.Ticks))
	for i, keys := range s.Ticks {
		out[i] = input.KeyNames(keys...)
	}
	return out
}
