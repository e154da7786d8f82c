package types

import "time"

// QueryRequest is the payload of POST /api/query.
type QueryRequest struct {
	// Prompt text to run on the local model.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" validate:"required" example:"Write a haiku about the ocean."`
	// Optional model identifier. If empty, the server default is used.
	// example: phi3
	Model string `json:"model,omitempty" validate:"omitempty,max=256" example:"phi3"`
	// Absolute run timeout override in seconds; 0 uses the server default.
	// example: 60
	TimeoutSeconds int `json:"timeout_seconds,omitempty" validate:"gte=0,lte=3600" example:"60"`
	// If true, output lines are streamed as NDJSON followed by a final result line.
	Stream bool `json:"stream,omitempty"`
}

// QueryResponse is the result of a local inference run.
type QueryResponse struct {
	// Generated text, lines joined with "\n".
	Content string `json:"content"`
	// Display model name (tag stripped).
	// example: llama3
	Model string `json:"model" example:"llama3"`
	// Model identifier as run, tag included.
	// example: llama3:8b
	ModelTag string `json:"model_tag" example:"llama3:8b"`
	// success, timeout or error.
	// example: success
	Status string `json:"status" example:"success"`
	// Error message when status is not success.
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryLine is one streamed output line of POST /api/query with stream=true.
type QueryLine struct {
	Line string `json:"line"`
}

// OptimizeRAMRequest is the payload of POST /api/optimize-ram.
type OptimizeRAMRequest struct {
	// Model whose processes are kept; all other runtime processes are stopped.
	// example: phi3
	CurrentModel string `json:"current_model" validate:"required" example:"phi3"`
}

// TerminateResponse is returned by /api/optimize-ram and /api/stop-all.
type TerminateResponse struct {
	// example: success
	Status string `json:"status" example:"success"`
	// Number of runtime processes that were signalled.
	// example: 2
	Terminated int `json:"terminated" example:"2"`
	// Model kept loaded; null after stop-all.
	CurrentModel *string   `json:"current_model"`
	Timestamp    time.Time `json:"timestamp"`
}

// SwitchRequest is the payload of POST /api/switch.
type SwitchRequest struct {
	// example: llama3:8b
	Model string `json:"model" validate:"omitempty,max=256" example:"llama3:8b"`
}

// SwitchResponse acknowledges a background model switch.
type SwitchResponse struct {
	// Operation id for correlating logs and events.
	OpID      string    `json:"op_id"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// OnlineSearchRequest is the payload of POST /api/online-search.
type OnlineSearchRequest struct {
	// example: What is the capital of France?
	Query string `json:"query" validate:"required" example:"What is the capital of France?"`
	// One of chatgpt, claude, gemini, copilot, deepseek.
	// example: chatgpt
	AIPlatform string `json:"ai_platform" validate:"required" example:"chatgpt"`
}

// OnlineSearchResponse carries the answer of a remote provider.
type OnlineSearchResponse struct {
	Status     string    `json:"status"`
	Content    string    `json:"content"`
	AIPlatform string    `json:"ai_platform"`
	Timestamp  time.Time `json:"timestamp"`
}

// MemoryEntry is one remembered prompt/response exchange.
type MemoryEntry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// MemoryResponse is returned by GET /api/memory, oldest entry first.
type MemoryResponse struct {
	Status    string        `json:"status"`
	Memory    []MemoryEntry `json:"memory"`
	Timestamp time.Time     `json:"timestamp"`
}

// MessageResponse is a status plus human-readable message.
type MessageResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ModelsResponse wraps the list of models returned by GET /api/models.
type ModelsResponse struct {
	// List of models known to the local runtime.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Run status for inference failures (timeout or error).
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ProcessStatus describes one registered runtime subprocess.
type ProcessStatus struct {
	// example: 12345
	PID int `json:"pid" example:"12345"`
	// example: phi3
	Model string `json:"model" example:"phi3"`
	// Start time in unix seconds.
	StartedUnix int64 `json:"started_unix"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Manager state: idle, loading, ready or error.
	// example: ready
	State string `json:"state" example:"ready"`
	// Model considered loaded; empty when none.
	// example: phi3
	CurrentModel string `json:"current_model" example:"phi3"`
	// Model used when a request omits one.
	DefaultModel string `json:"default_model"`
	// Last error observed by the manager (if any).
	Error string `json:"error,omitempty"`
	// Registered runtime subprocesses.
	Processes []ProcessStatus `json:"processes"`
	// Admitted generations (queued plus running).
	QueueLen int `json:"queue_len"`
	// Generations currently running (0 or 1).
	Inflight int `json:"inflight"`
	// Maximum admitted generations before backpressure triggers.
	MaxQueueDepth int `json:"max_queue_depth"`
	// Total number of successful model loads.
	LoadsTotal uint64 `json:"loads_total"`
	// Total number of runtime processes terminated.
	TerminatedTotal uint64 `json:"terminated_total"`
	// Uptime of the server in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
}
