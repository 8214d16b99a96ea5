// Package input turns raw key presses into rows of the input_events table.
//
// Only a fixed alphabet is recorded: U, D, L and R. Keys without a binding in
// the Keymap produce no row. A quit request is reported to the caller and is
// never written to the store.
package input
