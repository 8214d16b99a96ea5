package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickql/internal/frame"
)

func TestRecordingSink(t *testing.T) {
	s := &RecordingSink{}

	_, ok := s.Last()
	assert.False(t, ok)

	g := frame.NewGrid(2, 2)
	g.Set(1, 1, true)
	require.NoError(t, s.Paint(g))

	// Mutating the painted grid must not change the recording.
	g.Set(0, 0, true)

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 1, last.Lit())
	assert.Len(t, s.Frames(), 1)

	require.NoError(t, s.Close())
	assert.Equal(t, 1, s.Closed())
}

func TestRecordingSink_FailPaint(t *testing.T) {
	s := &RecordingSink{FailPaint: true}
	assert.Error(t, s.Paint(frame.NewGrid(1, 1)))
	assert.Len(t, s.Frames(), 1)
}
