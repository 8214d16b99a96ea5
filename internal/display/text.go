package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/tickql/internal/frame"
)

// Text writes every painted frame to a writer, boxed and numbered.
// Used for headless runs in a terminal.
type Text struct {
	w      io.Writer
	style  lipgloss.Style
	frames int
}

// NewText creates a text sink writing to w.
func NewText(w io.Writer) *Text {
	return &Text{
		w:     w,
		style: lipgloss.NewStyle().Border(lipgloss.NormalBorder()),
	}
}

// Paint writes one frame.
func (t *Text) Paint(g frame.Grid) error {
	t.frames++
	body := strings.TrimRight(g.String(), "\n")
	_, err := fmt.Fprintf(t.w, "frame %d (%d lit)\n%s\n", t.frames, g.Lit(), t.style.Render(body))
	return err
}

// Frames returns the number of frames written.
func (t *Text) Frames() int {
	return t.frames
}

// Close is a no-op; the writer belongs to the caller.
func (t *Text) Close() error {
	return nil
}
