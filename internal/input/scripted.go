package input

import (
	"fmt"
	"strings"
	"sync"
)

// QuitKey is the key name ParseTicks and scenarios use for a quit request.
const QuitKey = "quit"

// ScriptedSource replays a fixed list of per-tick events.
// Each PollEvents call returns the next tick's events; once the list is
// exhausted it returns nothing.
//
// Thread-safety: ScriptedSource is safe for concurrent use via internal mutex.
type ScriptedSource struct {
	mu    sync.Mutex
	ticks [][]RawEvent
	idx   int
}

// NewScriptedSource creates a source that yields ticks[i] on the i-th poll.
func NewScriptedSource(ticks [][]RawEvent) *ScriptedSource {
	return &ScriptedSource{ticks: ticks}
}

// PollEvents returns the events scheduled for the next tick.
func (s *ScriptedSource) PollEvents() []RawEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.ticks) {
		return nil
	}
	events := s.ticks[s.idx]
	s.idx++
	return events
}

// Remaining returns the number of ticks not yet polled.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ticks) - s.idx
}

// KeyNames converts a list of key names to raw events. The name QuitKey
// (case-insensitive) becomes a quit request.
func KeyNames(names ...string) []RawEvent {
	events := make([]RawEvent, 0, len(names))
	for _, name := range names {
		if strings.EqualFold(name, QuitKey) {
			events = append(events, Quit())
			continue
		}
		events = append(events, KeyDown(name))
	}
	return events
}

// ParseTicks parses the command-line tick notation: ticks are separated by
// "," and keys within a tick by "+". An empty tick means no input.
//
//	"W,,A+D,quit" -> [[W] [] [A D] [quit]]
func ParseTicks(notation string) ([][]RawEvent, error) {
	if strings.TrimSpace(notation) == "" {
		return nil, nil
	}
	parts := strings.Split(notation, ",")
	ticks := make([][]RawEvent, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			ticks = append(ticks, nil)
			continue
		}
		keys := strings.Split(part, "+")
		for _, key := range keys {
			if strings.TrimSpace(key) == "" {
				return nil, fmt.Errorf("tick %d: empty key in %q", i, part)
			}
		}
		for j := range keys {
			keys[j] = strings.TrimSpace(keys[j])
		}
		ticks = append(ticks, KeyNames(keys...))
	}
	return ticks, nil
}
