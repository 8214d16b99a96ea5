package engine

import "fmt"

// State is a lifecycle stage of the engine.
type State int32

const (
	// StateInitializing: constructed, input_events not yet ensured or the
	// loop not yet started.
	StateInitializing State = iota
	// StateRunning: ticking.
	StateRunning
	// StateDraining: releasing the sink and the store.
	StateDraining
	// StateTerminated: terminal. No further operations are permitted.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// ScriptErrorPolicy decides what a failing logic script does to the loop.
type ScriptErrorPolicy string

const (
	// PolicyHalt stops the loop and drains. This is the default.
	PolicyHalt ScriptErrorPolicy = "halt"

	// PolicySkip logs the failure, skips projection for that tick and keeps
	// running.
	PolicySkip ScriptErrorPolicy = "skip"
)

// ParseScriptErrorPolicy validates a policy name.
func ParseScriptErrorPolicy(s string) (ScriptErrorPolicy, error) {
	switch p := ScriptErrorPolicy(s); p {
	case PolicyHalt, PolicySkip:
		return p, nil
	}
	return "", fmt.Errorf("invalid script error policy %q: must be %q or %q", s, PolicyHalt, PolicySkip)
}
