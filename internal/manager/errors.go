package manager

import (
	"errors"
	"fmt"
	"time"
)

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{ reason string }

func (e tooBusyError) Error() string { return "too busy: " + e.reason }

// ErrTooBusy returns a backpressure error with the given reason.
func ErrTooBusy(reason string) error { return tooBusyError{reason: reason} }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var e tooBusyError
	return errors.As(err, &e)
}

// modelNotFoundError is returned when no model was given and no default is set.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound returns an error for a model id that cannot be resolved.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

// loadFailureError means the pull/load command failed, timed out or could not start.
type loadFailureError struct {
	model  string
	reason string
	err    error
}

func (e loadFailureError) Error() string {
	msg := "failed to load model: " + e.model
	if e.reason != "" {
		msg += ": " + e.reason
	}
	return msg
}

func (e loadFailureError) Unwrap() error { return e.err }

// IsLoadFailure reports whether err is a model load failure.
func IsLoadFailure(err error) bool {
	var e loadFailureError
	return errors.As(err, &e)
}

// spawnFailureError means the inference subprocess could not be created.
type spawnFailureError struct {
	model string
	err   error
}

func (e spawnFailureError) Error() string {
	return fmt.Sprintf("start runtime for %s: %v", e.model, e.err)
}

func (e spawnFailureError) Unwrap() error { return e.err }

// IsSpawnFailure reports whether err is a subprocess creation failure.
func IsSpawnFailure(err error) bool {
	var e spawnFailureError
	return errors.As(err, &e)
}

// timeoutError is raised when the absolute or the idle run timeout fires.
type timeoutError struct {
	idle  bool
	after time.Duration
}

func (e timeoutError) Error() string {
	if e.idle {
		return fmt.Sprintf("no output received for %s", e.after)
	}
	return fmt.Sprintf("response timed out after %s", e.after)
}

// IsExecutionTimeout reports whether err is an absolute or idle run timeout.
func IsExecutionTimeout(err error) bool {
	var e timeoutError
	return errors.As(err, &e)
}

// Termination outcomes reported by a processController.
var (
	errProcessGone = errors.New("process not found")
	errPermission  = errors.New("permission denied")
)
