package input

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
)

// Code is one symbol of the canonical input alphabet, as stored in
// input_events.event.
type Code byte

// The canonical alphabet.
const (
	Up    Code = 'U'
	Down  Code = 'D'
	Left  Code = 'L'
	Right Code = 'R'
)

// Alphabet lists every recognized code.
var Alphabet = []Code{Up, Down, Left, Right}

// String returns the single-character form written to the store.
func (c Code) String() string {
	return string(rune(c))
}

// Valid reports whether c belongs to the canonical alphabet.
func (c Code) Valid() bool {
	for _, a := range Alphabet {
		if a == c {
			return true
		}
	}
	return false
}

// ParseCode parses a single-character code.
func ParseCode(s string) (Code, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid input code %q: must be one of UDLR", s)
	}
	c := Code(s[0])
	if !c.Valid() {
		return 0, fmt.Errorf("invalid input code %q: must be one of UDLR", s)
	}
	return c, nil
}

// Keymap maps hardware key names to codes. Key names are matched
// case-insensitively ("w", "W" and "ArrowUp"/"arrowup" are equivalent).
type Keymap struct {
	keys map[string]Code
}

// DefaultBindings is the WASD layout.
var DefaultBindings = map[string]Code{
	"W": Up,
	"S": Down,
	"A": Left,
	"D": Right,
}

// NewKeymap builds a keymap from key name to code bindings.
// Returns an error if a binding targets a code outside the alphabet or if
// two key names fold to the same key with different codes.
func NewKeymap(bindings map[string]Code) (*Keymap, error) {
	km := &Keymap{keys: make(map[string]Code, len(bindings))}

	// Sorted so that conflicts are reported deterministically.
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		code := bindings[name]
		if name == "" {
			return nil, fmt.Errorf("keymap: empty key name")
		}
		if !code.Valid() {
			return nil, fmt.Errorf("keymap: key %q bound to invalid code %q", name, code.String())
		}
		key := foldKey(name)
		if prev, ok := km.keys[key]; ok && prev != code {
			return nil, fmt.Errorf("keymap: key %q bound to both %s and %s", name, prev, code)
		}
		km.keys[key] = code
	}
	return km, nil
}

// DefaultKeymap returns the WASD keymap.
func DefaultKeymap() *Keymap {
	km, err := NewKeymap(DefaultBindings)
	if err != nil {
		panic(err)
	}
	return km
}

// Lookup returns the code bound to the key name.
func (k *Keymap) Lookup(name string) (Code, bool) {
	code, ok := k.keys[foldKey(name)]
	return code, ok
}

// Len returns the number of bound keys.
func (k *Keymap) Len() int {
	return len(k.keys)
}

// foldKey case-folds a key name. A Caser is stateful, so each call gets its own.
func foldKey(name string) string {
	return cases.Fold().String(name)
}
