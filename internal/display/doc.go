// Package display holds the render sinks: an ebiten window for interactive
// runs and a text sink for terminals and tests.
package display
