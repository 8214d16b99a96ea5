package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedSource(t *testing.T) {
	src := NewScriptedSource([][]RawEvent{KeyNames("W"), nil, KeyNames("A")})
	assert.Equal(t, 3, src.Remaining())

	assert.Equal(t, []RawEvent{KeyDown("W")}, src.PollEvents())
	assert.Empty(t, src.PollEvents())
	assert.Equal(t, []RawEvent{KeyDown("A")}, src.PollEvents())
	assert.Nil(t, src.PollEvents())
	assert.Equal(t, 0, src.Remaining())
}

func TestKeyNames_Quit(t *testing.T) {
	events := KeyNames("W", "QUIT")
	assert.Equal(t, []RawEvent{KeyDown("W"), Quit()}, events)
}

func TestParseTicks(t *testing.T) {
	ticks, err := ParseTicks("W,,A+D,quit")
	require.NoError(t, err)
	require.Len(t, ticks, 4)

	assert.Equal(t, []RawEvent{KeyDown("W")}, ticks[0])
	assert.Empty(t, ticks[1])
	assert.Equal(t, []RawEvent{KeyDown("A"), KeyDown("D")}, ticks[2])
	assert.Equal(t, []RawEvent{Quit()}, ticks[3])
}

func TestParseTicks_Empty(t *testing.T) {
	ticks, err := ParseTicks("  ")
	require.NoError(t, err)
	assert.Nil(t, ticks)
}

func TestParseTicks_EmptyKey(t *testing.T) {
	_, err := ParseTicks("W,A++D")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick 1")
}
