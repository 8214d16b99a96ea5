package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// movingPixel moves one lit pixel with the arrow codes. Its state lives in
// the player table, so it carries over between runs on the same store.
const movingPixel = `
CREATE TABLE IF NOT EXISTS framebuffer(x INTEGER, y INTEGER, pixel INTEGER);
CREATE TABLE IF NOT EXISTS player(x INTEGER, y INTEGER);
INSERT INTO player SELECT 0, 0 WHERE NOT EXISTS (SELECT 1 FROM player);
UPDATE player SET x = MIN(x + 1, 7) WHERE EXISTS (SELECT 1 FROM input_events WHERE event = 'R');
UPDATE player SET x = MAX(x - 1, 0) WHERE EXISTS (SELECT 1 FROM input_events WHERE event = 'L');
UPDATE player SET y = MIN(y + 1, 7) WHERE EXISTS (SELECT 1 FROM input_events WHERE event = 'D');
UPDATE player SET y = MAX(y - 1, 0) WHERE EXISTS (SELECT 1 FROM input_events WHERE event = 'U');
DELETE FROM framebuffer;
INSERT INTO framebuffer SELECT x, y, 1 FROM player;
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if args == nil {
		// cobra falls back to os.Args for nil args
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
