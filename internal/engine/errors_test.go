package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError_Error(t *testing.T) {
	cause := errors.New("near \"SELEC\": syntax error")

	err := newRuntimeError(ErrCodeScriptFailed, 7, "logic script failed", cause)
	assert.Equal(t, `SCRIPT_FAILED: logic script failed (tick=7): near "SELEC": syntax error`, err.Error())

	err = newRuntimeError(ErrCodeInitFailed, 0, "failed to create input_events", nil)
	assert.Equal(t, "INIT_FAILED: failed to create input_events", err.Error())
}

func TestRuntimeError_Unwrap(t *testing.T) {
	cause := errors.New("database is locked")
	err := newRuntimeError(ErrCodeScriptFailed, 1, "logic script failed", cause)

	assert.ErrorIs(t, err, cause)
}

func TestErrorPredicates_Wrapped(t *testing.T) {
	script := fmt.Errorf("run: %w", newRuntimeError(ErrCodeScriptFailed, 1, "x", nil))
	init := fmt.Errorf("run: %w", newRuntimeError(ErrCodeInitFailed, 0, "x", nil))

	assert.True(t, IsScriptError(script))
	assert.False(t, IsInitError(script))
	assert.True(t, IsInitError(init))
	assert.False(t, IsScriptError(init))

	assert.Equal(t, RuntimeErrorCode(""), ErrorCode(errors.New("plain")))
	assert.False(t, IsScriptError(nil))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "initializing", StateInitializing.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "draining", StateDraining.String())
	assert.Equal(t, "terminated", StateTerminated.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestParseScriptErrorPolicy(t *testing.T) {
	p, err := ParseScriptErrorPolicy("skip")
	assert.NoError(t, err)
	assert.Equal(t, PolicySkip, p)

	_, err = ParseScriptErrorPolicy("retry")
	assert.Error(t, err)
}
