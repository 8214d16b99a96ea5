package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameArgs builds the args of a frame run over an 8x8 grid.
func frameArgs(t *testing.T, dir, script string, extra ...string) []string {
	t.Helper()
	scriptPath := writeFile(t, dir, "game.sql", script)
	cfg := writeFile(t, dir, "tickql.yaml", "grid: {width: 8, height: 8}\n")
	args := []string{"frame", scriptPath, filepath.Join(dir, "game.db"), "--config", cfg}
	return append(args, extra...)
}

func TestFrame_Golden(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, frameArgs(t, dir, movingPixel, "--ticks", "4", "--input", "D,D,S,")...)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "frame_moving_pixel", []byte(out))
}

func TestFrame_DefaultGrid(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "game.sql", movingPixel)

	out, _, err := execute(t, "frame", script, filepath.Join(dir, "game.db"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 32)
	assert.Len(t, lines[0], 32)
	assert.Equal(t, "#"+strings.Repeat(".", 31), lines[0])
}

func TestFrame_StatePersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	args := frameArgs(t, dir, movingPixel, "--input", "D")

	_, _, err := execute(t, args...)
	require.NoError(t, err)
	out, _, err := execute(t, args...)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "..#.....\n"), "got:\n%s", out)
}

func TestFrame_Quit(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, frameArgs(t, dir, movingPixel, "--ticks", "5", "--input", "D,quit,D")...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, ".#......\n"), "got:\n%s", out)
}

func TestFrame_DumpInput(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, frameArgs(t, dir, movingPixel, "--input", "W+A+x", "--dump-input")...)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "input_events: [U L]\n"), "got:\n%s", out)
}

func TestFrame_Watch(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, frameArgs(t, dir, movingPixel, "--ticks", "2", "--input", "D,D", "--watch")...)
	require.NoError(t, err)
	assert.Contains(t, out, "frame 1 (1 lit)")
	assert.Contains(t, out, "frame 2 (1 lit)")
	assert.NotContains(t, out, "frame 3")
}

func TestFrame_ScriptHalts(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, frameArgs(t, dir, "SELECT * FROM missing;", "--ticks", "3")...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "SCRIPT_FAILED")
	assert.Empty(t, out)
}

func TestFrame_ScriptSkipped(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, frameArgs(t, dir, "SELECT * FROM missing;", "--ticks", "3", "--on-script-error", "skip")...)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("........\n", 8), out)
}

func TestFrame_InvalidFlags(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"zero ticks": {[]string{"--ticks", "0"}, "--ticks must be positive"},
		"bad input":  {[]string{"--input", "A++D"}, "invalid --input"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			_, _, err := execute(t, frameArgs(t, dir, movingPixel, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFrame_WrongArgCount(t *testing.T) {
	_, stderr, err := execute(t, "frame", "game.sql")
	require.Error(t, err)
	assert.Contains(t, stderr, "Usage:")
}

func TestFrame_NoFramebufferWarns(t *testing.T) {
	dir := t.TempDir()

	out, stderr, err := execute(t, frameArgs(t, dir, "SELECT 1;")...)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("........\n", 8), out)
	assert.Contains(t, stderr, "script never created the framebuffer table")
}
