package display

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/roach88/tickql/internal/frame"
	"github.com/roach88/tickql/internal/input"
)

// Defaults for the window surface.
const (
	DefaultScale = 16
	DefaultTitle = "SQL Game Engine"
)

// maxPendingEvents bounds the events queued between two engine polls.
const maxPendingEvents = 64

// Window is an ebiten-backed display surface. It is both the render sink and
// the input source of a windowed run.
//
// ebiten must own the main goroutine, so the engine runs elsewhere and the
// two sides only meet through Paint and PollEvents:
//   - the first Update closes Ready; the engine must not start before that
//   - Update queues key presses and the close request; PollEvents drains them
//   - Paint stores a copy of the grid; Draw uploads the latest copy
//   - Close makes the next Update end RunGame
//
// Thread-safety: Paint, PollEvents and Close are safe from any goroutine.
type Window struct {
	width  int
	height int
	scale  int
	title  string

	ready     chan struct{}
	readyOnce sync.Once

	mu       sync.Mutex
	grid     frame.Grid
	dirty    bool
	pending  []input.RawEvent
	quitSent bool
	closed   bool

	pix  []byte
	keys []ebiten.Key
}

// NewWindow creates a window for a width x height logical grid. Each logical
// cell is drawn as a scale x scale square.
func NewWindow(width, height, scale int, title string) *Window {
	if scale <= 0 {
		scale = DefaultScale
	}
	if title == "" {
		title = DefaultTitle
	}
	return &Window{
		width:  width,
		height: height,
		scale:  scale,
		title:  title,
		grid:   frame.NewGrid(width, height),
		dirty:  true,
		pix:    make([]byte, width*height*4),
		ready:  make(chan struct{}),
	}
}

// Run opens the window and blocks until Close is called or the window fails.
// Must be called from the main goroutine.
func (w *Window) Run() error {
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.width*w.scale, w.height*w.scale)
	ebiten.SetWindowClosingHandled(true)

	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Ready is closed once ebiten has started the game loop. It stays open when
// RunGame fails before the first Update.
func (w *Window) Ready() <-chan struct{} {
	return w.ready
}

// Update implements ebiten.Game. It runs at ebiten's TPS, independent of the
// engine's tick period; presses accumulate until the engine polls them.
func (w *Window) Update() error {
	w.readyOnce.Do(func() { close(w.ready) })

	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	if !w.queue(w.keys, ebiten.IsWindowBeingClosed()) {
		return ebiten.Termination
	}
	return nil
}

// queue records pressed keys and, the first time closing is set, one quit
// event. It reports false once Close has been called.
func (w *Window) queue(keys []ebiten.Key, closing bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}
	for _, k := range keys {
		w.push(input.KeyDown(k.String()))
	}
	if closing && !w.quitSent {
		w.push(input.Quit())
		w.quitSent = true
	}
	return true
}

// push appends ev, dropping the oldest key press when the queue is full.
// A queued quit is never dropped. Callers hold w.mu.
func (w *Window) push(ev input.RawEvent) {
	if len(w.pending) >= maxPendingEvents {
		for i, p := range w.pending {
			if p.Kind == input.KindKeyDown {
				w.pending = append(w.pending[:i], w.pending[i+1:]...)
				break
			}
		}
	}
	w.pending = append(w.pending, ev)
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	if w.dirty {
		fillPixels(w.pix, w.grid)
		w.dirty = false
	}
	w.mu.Unlock()

	screen.WritePixels(w.pix)
}

// Layout implements ebiten.Game. The screen is the logical grid; ebiten
// scales it up to the window.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}

// Paint stores the grid for the next Draw.
func (w *Window) Paint(g frame.Grid) error {
	if g.Width != w.width || g.Height != w.height {
		return errors.New("display: grid size does not match window")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.grid = g.Clone()
	w.dirty = true
	return nil
}

// PollEvents drains the events collected since the previous call.
func (w *Window) PollEvents() []input.RawEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := w.pending
	w.pending = nil
	return events
}

// Close ends the window's run loop. Safe to call more than once.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// fillPixels writes g as RGBA: white for lit cells on a black background.
func fillPixels(pix []byte, g frame.Grid) {
	i := 0
	for _, row := range g.Cells {
		for _, c := range row {
			var v byte
			if c != 0 {
				v = 0xff
			}
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 0xff
			i += 4
		}
	}
}
