package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Frame    string // Final frame for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Frame != "" {
		fmt.Fprintf(&buf, "\nFinal frame:\n%s", e.Frame)
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %s", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertCellOn:
		return assertCell(result, a, true)
	case AssertCellOff:
		return assertCell(result, a, false)
	case AssertLitCount:
		return assertLitCount(result, a)
	case AssertInputRows:
		return assertInputRows(result, a)
	case AssertTickCount:
		return assertTickCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertCell checks one cell of the final frame. Coordinates outside the
// grid always fail.
func assertCell(result *Result, a Assertion, want bool) error {
	g := result.Grid
	if !g.InBounds(int64(a.X), int64(a.Y)) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("cell (%d,%d) inside the grid", a.X, a.Y),
			Actual:   fmt.Sprintf("grid is %dx%d", g.Width, g.Height),
		}
	}
	if got := g.On(a.X, a.Y); got != want {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("cell (%d,%d) %s", a.X, a.Y, onOff(want)),
			Actual:   onOff(got),
			Frame:    g.String(),
		}
	}
	return nil
}

func assertLitCount(result *Result, a Assertion) error {
	if got := result.Grid.Lit(); got != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d lit cells", a.Count),
			Actual:   fmt.Sprintf("%d lit cells", got),
			Frame:    result.Grid.String(),
		}
	}
	return nil
}

// assertInputRows compares input_events codes in insertion order.
func assertInputRows(result *Result, a Assertion) error {
	want := a.Rows
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(result.InputRows, want) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("input_events %v", want),
			Actual:   fmt.Sprintf("input_events %v", result.InputRows),
		}
	}
	return nil
}

func assertTickCount(result *Result, a Assertion) error {
	if result.Ticks != int64(a.Count) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d ticks", a.Count),
			Actual:   fmt.Sprintf("%d ticks", result.Ticks),
		}
	}
	return nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
