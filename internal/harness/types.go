package harness

import "github.com/roach88/tickql/internal/frame"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when the run ended as expected and every assertion held.
	Pass bool

	// Errors contains assertion and expectation failures. Empty if Pass.
	Errors []string

	// Ticks is the number of ticks started.
	Ticks int64

	// Frames is the number of frames painted.
	Frames int

	// Grid is the last projected frame.
	Grid frame.Grid

	// InputRows are the input_events codes left after the last tick.
	InputRows []string

	// ErrorCode is the RuntimeError code the run ended with, if any.
	ErrorCode string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Errors:    []string{},
		InputRows: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
