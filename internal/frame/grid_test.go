package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_AllOff(t *testing.T) {
	g := NewGrid(DefaultWidth, DefaultHeight)

	require.Len(t, g.Cells, DefaultHeight)
	for y := range g.Cells {
		require.Len(t, g.Cells[y], DefaultWidth)
		for x := range g.Cells[y] {
			assert.Zero(t, g.Cells[y][x])
		}
	}
	assert.Zero(t, g.Lit())
}

func TestNewGrid_InvalidSize(t *testing.T) {
	assert.Panics(t, func() { NewGrid(0, 4) })
	assert.Panics(t, func() { NewGrid(4, -1) })
}

func TestGrid_RowsDoNotAlias(t *testing.T) {
	g := NewGrid(3, 2)
	// Appending to a row must not spill into the next one.
	_ = append(g.Cells[0], 1)
	assert.Zero(t, g.Cells[1][0])
}

func TestGrid_SetAt(t *testing.T) {
	g := NewGrid(4, 3)

	g.Set(3, 2, true)
	g.Set(0, 0, true)
	g.Set(0, 0, false)

	assert.True(t, g.On(3, 2))
	assert.False(t, g.On(0, 0))
	assert.Equal(t, uint8(1), g.At(3, 2))
	assert.Equal(t, 1, g.Lit())
}

func TestGrid_OutOfBounds(t *testing.T) {
	g := NewGrid(4, 3)

	g.Set(4, 0, true)
	g.Set(-1, 0, true)
	g.Set(0, 3, true)

	assert.Zero(t, g.Lit())
	assert.Zero(t, g.At(99, 99))
	assert.False(t, g.InBounds(4, 0))
	assert.False(t, g.InBounds(0, -1))
	assert.True(t, g.InBounds(3, 2))
}

func TestGrid_String(t *testing.T) {
	g := NewGrid(3, 2)
	g.Set(0, 0, true)
	g.Set(2, 1, true)

	assert.Equal(t, "#..\n..#\n", g.String())
}

func TestParseGrid_RoundTrip(t *testing.T) {
	g, err := ParseGrid("#..\n.#.\n..#\n")
	require.NoError(t, err)

	assert.Equal(t, 3, g.Width)
	assert.Equal(t, 3, g.Height)
	assert.Equal(t, 3, g.Lit())
	assert.True(t, g.On(1, 1))
	assert.Equal(t, "#..\n.#.\n..#\n", g.String())
}

func TestParseGrid_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":  "",
		"ragged": "##\n#\n",
		"glyph":  "#x\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGrid(in)
			assert.Error(t, err)
		})
	}
}

func TestGrid_CloneIsDeep(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(1, 1, true)

	c := g.Clone()
	assert.True(t, c.Equal(g))

	g.Set(0, 0, true)
	assert.False(t, c.On(0, 0))
	assert.False(t, c.Equal(g))
}

func TestGrid_CloneZero(t *testing.T) {
	var g Grid
	c := g.Clone()
	assert.Zero(t, c.Width)
}

func TestGrid_EqualSizeMismatch(t *testing.T) {
	assert.False(t, NewGrid(2, 2).Equal(NewGrid(2, 3)))
}
