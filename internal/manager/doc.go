// Package manager keeps exactly one local model current and runs inference
// subprocesses of the local runtime (ollama by default) under timeouts. It is
// structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: State, RunStatus, Result and Snapshot.
//   - errors.go: error types and helpers (IsTooBusy, IsLoadFailure, IsExecutionTimeout, ...).
//   - registry.go: ProcessRegistry, the pid -> model map of live subprocesses.
//   - terminate.go: TerminateAll, graceful-then-forced stop plus the OS-wide sweep.
//   - proc*.go: per-platform process control (process groups, taskkill, enumeration).
//   - ensure.go: EnsureLoaded, the serialized pull of a model.
//   - runner.go: Run/Stream, the timed inference invocation.
//   - admission.go: single in-flight generation with a bounded queue.
//   - unload.go: StopAll, OptimizeRAM and Close.
//   - ops.go: Switch, an asynchronous EnsureLoaded.
//   - models.go: ListModels over the runtime catalog.
//   - status_report.go, sanity.go, metrics.go, events.go: observability.
//
// Lock order is admission slot, loader lock, state mutex, registry mutex.
// Termination syscalls never run under the state or registry mutex.
package manager
