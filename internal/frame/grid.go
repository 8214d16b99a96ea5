package frame

import (
	"fmt"
	"strings"
)

// Default logical grid size.
const (
	DefaultWidth  = 32
	DefaultHeight = 32
)

// Cell glyphs used by Grid.String.
const (
	GlyphOn  = '#'
	GlyphOff = '.'
)

// Grid is a dense Width x Height framebuffer indexed [y][x].
// Every cell is defined: 0 is off, 1 is on.
type Grid struct {
	Width  int
	Height int
	Cells  [][]uint8
}

// NewGrid returns an all-off grid. Panics if either dimension is not positive.
func NewGrid(width, height int) Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("frame: invalid grid size %dx%d", width, height))
	}
	// One backing array keeps rows contiguous.
	backing := make([]uint8, width*height)
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = backing[y*width : (y+1)*width : (y+1)*width]
	}
	return Grid{Width: width, Height: height, Cells: cells}
}

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g Grid) InBounds(x, y int64) bool {
	return x >= 0 && x < int64(g.Width) && y >= 0 && y < int64(g.Height)
}

// At returns the cell at column x, row y. Out-of-bounds reads are 0.
func (g Grid) At(x, y int) uint8 {
	if !g.InBounds(int64(x), int64(y)) {
		return 0
	}
	return g.Cells[y][x]
}

// On reports whether the cell at (x, y) is lit.
func (g Grid) On(x, y int) bool {
	return g.At(x, y) != 0
}

// Set lights (on=true) or clears the cell at (x, y). Out-of-bounds writes are ignored.
func (g Grid) Set(x, y int, on bool) {
	if !g.InBounds(int64(x), int64(y)) {
		return
	}
	if on {
		g.Cells[y][x] = 1
	} else {
		g.Cells[y][x] = 0
	}
}

// Lit returns the number of lit cells.
func (g Grid) Lit() int {
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c != 0 {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	if g.Width == 0 || g.Height == 0 {
		return Grid{}
	}
	out := NewGrid(g.Width, g.Height)
	for y, row := range g.Cells {
		copy(out.Cells[y], row)
	}
	return out
}

// Equal reports whether both grids have the same size and cells.
func (g Grid) Equal(other Grid) bool {
	if g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for y := range g.Cells {
		for x := range g.Cells[y] {
			if g.Cells[y][x] != other.Cells[y][x] {
				return false
			}
		}
	}
	return true
}

// String renders one line per row, '#' for lit cells and '.' otherwise.
func (g Grid) String() string {
	var b strings.Builder
	b.Grow((g.Width + 1) * g.Height)
	for _, row := range g.Cells {
		for _, c := range row {
			if c != 0 {
				b.WriteByte(GlyphOn)
			} else {
				b.WriteByte(GlyphOff)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseGrid is the inverse of String. Used for expected frames in tests and
// scenarios.
func ParseGrid(s string) (Grid, error) {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return Grid{}, fmt.Errorf("parse grid: empty input")
	}
	width := len(lines[0])
	g := NewGrid(width, len(lines))
	for y, line := range lines {
		if len(line) != width {
			return Grid{}, fmt.Errorf("parse grid: row %d has width %d, want %d", y, len(line), width)
		}
		for x := 0; x < width; x++ {
			switch line[x] {
			case GlyphOn:
				g.Cells[y][x] = 1
			case GlyphOff:
			default:
				return Grid{}, fmt.Errorf("parse grid: row %d col %d: unexpected %q", y, x, line[x])
			}
		}
	}
	return g, nil
}
