package manager

import (
	"sort"
	"sync"
	"time"
)

// ProcessEntry describes one live runtime subprocess owned by this service.
type ProcessEntry struct {
	PID       int
	Model     string
	StartedAt time.Time
}

// ProcessRegistry maps the pids of live inference subprocesses to the model
// they serve. Safe for concurrent use.
type ProcessRegistry struct {
	mu      sync.Mutex
	entries map[int]ProcessEntry
}

// NewProcessRegistry returns an empty registry.
func NewProcessRegistry() *ProcessRegistry {
	return &ProcessRegistry{entries: make(map[int]ProcessEntry)}
}

// Register records pid as serving model. A duplicate pid overwrites the entry.
func (r *ProcessRegistry) Register(pid int, model string) {
	r.mu.Lock()
	r.entries[pid] = ProcessEntry{PID: pid, Model: model, StartedAt: time.Now()}
	r.mu.Unlock()
}

// Unregister removes pid. Unknown pids are ignored.
func (r *ProcessRegistry) Unregister(pid int) {
	r.mu.Lock()
	delete(r.entries, pid)
	r.mu.Unlock()
}

// Contains reports whether pid is currently registered.
func (r *ProcessRegistry) Contains(pid int) bool {
	r.mu.Lock()
	_, ok := r.entries[pid]
	r.mu.Unlock()
	return ok
}

// Snapshot returns a copy of the current entries keyed by pid.
func (r *ProcessRegistry) Snapshot() map[int]ProcessEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]ProcessEntry, len(r.entries))
	for pid, e := range r.entries {
		out[pid] = e
	}
	return out
}

// Entries returns the registered processes ordered by pid.
func (r *ProcessRegistry) Entries() []ProcessEntry {
	r.mu.Lock()
	out := make([]ProcessEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

// Len returns the number of registered processes.
func (r *ProcessRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
