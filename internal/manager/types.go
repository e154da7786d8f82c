package manager

import "time"

// State represents the lifecycle state of the manager.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// RunStatus tags the outcome of a local inference invocation.
type RunStatus string

const (
	StatusSuccess RunStatus = "success"
	StatusTimeout RunStatus = "timeout"
	StatusError   RunStatus = "error"
)

// Result is the structured outcome of Run. Failures are reported through
// Status and Error; Err keeps the cause for classification (IsTooBusy, ...).
type Result struct {
	Content string
	// Model is the display identifier: the requested model without its tag.
	Model string
	// ModelTag is the identifier exactly as it was run, tag included.
	ModelTag string
	Status   RunStatus
	Error    string
	Err      error
	PID      int
	Duration time.Duration
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State        State
	CurrentModel string
	Err          string
}
