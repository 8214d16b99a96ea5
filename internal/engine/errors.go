package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while the engine runs.
//
// Runtime errors include:
//   - Initialization: input_events could not be created
//   - Script failure: the logic script batch returned an error
//   - Purge/projection/render failures (recoverable, only ever logged)
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Tick is the tick number the error occurred in (0 during Init).
	Tick int64

	// Err is the underlying store error.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInitFailed indicates the engine could not prepare the store.
	ErrCodeInitFailed RuntimeErrorCode = "INIT_FAILED"

	// ErrCodePurgeFailed indicates input_events could not be cleared.
	ErrCodePurgeFailed RuntimeErrorCode = "PURGE_FAILED"

	// ErrCodeScriptFailed indicates the logic script returned an error.
	ErrCodeScriptFailed RuntimeErrorCode = "SCRIPT_FAILED"

	// ErrCodeProjectFailed indicates the framebuffer table could not be read.
	ErrCodeProjectFailed RuntimeErrorCode = "PROJECT_FAILED"

	// ErrCodeRenderFailed indicates the sink rejected a frame.
	ErrCodeRenderFailed RuntimeErrorCode = "RENDER_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Tick > 0 {
		msg = fmt.Sprintf("%s (tick=%d)", msg, e.Tick)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying store error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the RuntimeErrorCode of err, or "" if err is not a
// RuntimeError. Uses errors.As to handle wrapped errors.
func ErrorCode(err error) RuntimeErrorCode {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsScriptError returns true if the error is a logic script failure.
func IsScriptError(err error) bool {
	return ErrorCode(err) == ErrCodeScriptFailed
}

// IsInitError returns true if the error is an initialization failure.
func IsInitError(err error) bool {
	return ErrorCode(err) == ErrCodeInitFailed
}

func newRuntimeError(code RuntimeErrorCode, tick int64, msg string, err error) *RuntimeError {
	return &RuntimeError{Code: code, Message: msg, Tick: tick, Err: err}
}
