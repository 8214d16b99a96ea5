package input

import (
	"context"
	"log/slog"
)

// Kind identifies a raw input event.
type Kind int

const (
	// KindKeyDown is a key press. Key carries the hardware key name.
	KindKeyDown Kind = iota
	// KindQuit is a termination request (window closed, Ctrl-C, scripted quit).
	KindQuit
)

// RawEvent is one event as reported by the display surface, before mapping.
type RawEvent struct {
	Kind Kind
	Key  string
}

// KeyDown returns a key press event for the named key.
func KeyDown(key string) RawEvent {
	return RawEvent{Kind: KindKeyDown, Key: key}
}

// Quit returns a termination request event.
func Quit() RawEvent {
	return RawEvent{Kind: KindQuit}
}

// Source produces raw input events.
// PollEvents drains and returns every event observed since the previous call.
type Source interface {
	PollEvents() []RawEvent
}

// Recorder is the store surface the bridge writes input rows through.
// Implemented by *store.Store.
type Recorder interface {
	InsertInputEvent(ctx context.Context, code string) error
}

// Batch is the result of polling one tick's worth of input.
type Batch struct {
	// Codes holds one code per recognized key press, in arrival order.
	Codes []Code
	// Quit is set when a termination request was observed.
	Quit bool
	// Ignored counts key presses with no binding.
	Ignored int
}

// Bridge translates raw events into canonical codes and records them.
type Bridge struct {
	src    Source
	keymap *Keymap
	logger *slog.Logger
}

// NewBridge creates a bridge over src. A nil keymap selects DefaultKeymap.
func NewBridge(src Source, keymap *Keymap, logger *slog.Logger) *Bridge {
	if keymap == nil {
		keymap = DefaultKeymap()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{src: src, keymap: keymap, logger: logger}
}

// Poll drains the source and maps every recognized key press to its code.
// Unrecognized keys produce nothing. Events after a quit request are still
// mapped; the engine discards them with the rest of the tick.
func (b *Bridge) Poll() Batch {
	var batch Batch
	if b.src == nil {
		return batch
	}
	for _, ev := range b.src.PollEvents() {
		switch ev.Kind {
		case KindQuit:
			batch.Quit = true
		case KindKeyDown:
			code, ok := b.keymap.Lookup(ev.Key)
			if !ok {
				batch.Ignored++
				b.logger.Debug("unmapped key", "key", ev.Key)
				continue
			}
			batch.Codes = append(batch.Codes, code)
		}
	}
	return batch
}

// Record inserts one input_events row per code. A failed insert is logged
// and the remaining codes are still recorded.
// Returns the number of rows written.
func (b *Bridge) Record(ctx context.Context, rec Recorder, codes []Code) int {
	written := 0
	for _, code := range codes {
		if err := rec.InsertInputEvent(ctx, code.String()); err != nil {
			b.logger.Warn("failed to record input event", "code", code.String(), "error", err)
			continue
		}
		written++
	}
	return written
}
