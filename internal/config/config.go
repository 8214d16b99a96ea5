// Package config loads engine settings from defaults, an optional YAML file
// and command-line overrides, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tickql/internal/display"
	"github.com/roach88/tickql/internal/engine"
	"github.com/roach88/tickql/internal/frame"
	"github.com/roach88/tickql/internal/input"
)

// Config holds every tunable of a run.
type Config struct {
	// Title is the window title.
	Title string `yaml:"title"`

	// Grid is the logical framebuffer size and the window scale factor.
	Grid Grid `yaml:"grid"`

	// Period is the tick period, e.g. "100ms".
	Period time.Duration `yaml:"period"`

	// Pacing is "fixed" (sleep the full period) or "monotonic"
	// (sleep period minus tick time).
	Pacing string `yaml:"pacing"`

	// OnScriptError is "halt" or "skip".
	OnScriptError string `yaml:"on_script_error"`

	// Keymap maps key names to codes (U, D, L, R). Empty means WASD.
	// A keymap given here replaces the default one entirely.
	Keymap map[string]string `yaml:"keymap,omitempty"`
}

// Grid is the logical grid geometry.
type Grid struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Scale  int `yaml:"scale"`
}

// Default returns the built-in configuration: 32x32 grid at scale 16,
// 100ms fixed pacing, halt on script error, WASD.
func Default() Config {
	return Config{
		Title: display.DefaultTitle,
		Grid: Grid{
			Width:  frame.DefaultWidth,
			Height: frame.DefaultHeight,
			Scale:  display.DefaultScale,
		},
		Period:        engine.DefaultPeriod,
		Pacing:        string(engine.PacingFixed),
		OnScriptError: string(engine.PolicyHalt),
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Fields missing from the file keep their default. Unknown fields are
// rejected (catches typos like "on_script_eror:").
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes, period, enum values and the keymap.
func (c Config) Validate() error {
	var errs []error

	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid: width and height must be positive, got %dx%d", c.Grid.Width, c.Grid.Height))
	}
	if c.Grid.Scale <= 0 {
		errs = append(errs, fmt.Errorf("grid: scale must be positive, got %d", c.Grid.Scale))
	}
	if c.Period <= 0 {
		errs = append(errs, fmt.Errorf("period must be positive, got %s", c.Period))
	}
	if _, err := engine.ParsePacing(c.Pacing); err != nil {
		errs = append(errs, err)
	}
	if _, err := engine.ParseScriptErrorPolicy(c.OnScriptError); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.BuildKeymap(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// BuildKeymap converts the configured bindings. An empty keymap yields WASD.
func (c Config) BuildKeymap() (*input.Keymap, error) {
	if len(c.Keymap) == 0 {
		return input.DefaultKeymap(), nil
	}
	bindings := make(map[string]input.Code, len(c.Keymap))
	for key, s := range c.Keymap {
		code, err := input.ParseCode(s)
		if err != nil {
			return nil, fmt.Errorf("keymap %q: %w", key, err)
		}
		bindings[key] = code
	}
	return input.NewKeymap(bindings)
}

// EngineOptions translates the config into engine options. clock may be nil
// (wall clock).
func (c Config) EngineOptions(clock engine.Clock) ([]engine.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	km, err := c.BuildKeymap()
	if err != nil {
		return nil, err
	}
	pacer, err := engine.NewPacer(engine.Pacing(c.Pacing), c.Period, clock)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithGrid(c.Grid.Width, c.Grid.Height),
		engine.WithPeriod(c.Period),
		engine.WithPacer(pacer),
		engine.WithScriptErrorPolicy(engine.ScriptErrorPolicy(c.OnScriptError)),
		engine.WithKeymap(km),
	}
	if clock != nil {
		opts = append(opts, engine.WithClock(clock))
	}
	return opts, nil
}
