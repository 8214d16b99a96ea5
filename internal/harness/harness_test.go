package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Scenarios(t *testing.T) {
	files := []string{
		"testdata/scenarios/moving_pixel.yaml",
		"testdata/scenarios/input_log.yaml",
		"testdata/scenarios/quit.yaml",
		"testdata/scenarios/script_halt.yaml",
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			s, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Golden(t *testing.T) {
	for _, name := range []string{"moving_pixel", "input_log"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ScriptHaltResult(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/script_halt.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, "SCRIPT_FAILED", result.ErrorCode)
	assert.Equal(t, int64(1), result.Ticks)
	assert.Zero(t, result.Frames)
}

func TestRun_UnexpectedError(t *testing.T) {
	s := &Scenario{
		Name:  "unexpected",
		SQL:   "SELECT * FROM missing;",
		Ticks: [][]string{{}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `run ended with error "SCRIPT_FAILED", want ""`)
}

func TestRun_SkipPolicy(t *testing.T) {
	s := &Scenario{
		Name:          "skip",
		SQL:           "SELECT * FROM missing;",
		OnScriptError: "skip",
		Ticks:         [][]string{{}, {}, {}},
		Assertions:    []Assertion{{Type: AssertTickCount, Count: 3}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.ErrorCode)
}

func TestRun_FailingAssertion(t *testing.T) {
	s := &Scenario{
		Name:  "failing",
		SQL:   "SELECT 1;",
		Setup: "CREATE TABLE framebuffer(x INTEGER, y INTEGER, pixel INTEGER);",
		Grid:  GridSize{Width: 2, Height: 2},
		Ticks: [][]string{{}},
		Assertions: []Assertion{
			{Type: AssertCellOn, X: 1, Y: 1},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Expected: cell (1,1) on")
}

func TestRun_BadSetup(t *testing.T) {
	s := &Scenario{
		Name:  "bad_setup",
		SQL:   "SELECT 1;",
		Setup: "CREATE TABLE",
		Ticks: [][]string{{}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute setup")
}
