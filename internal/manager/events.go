package manager

import "sync"

// Event names published by the manager.
const (
	EventEnsureStart    = "ensure_start"
	EventEnsureReady    = "ensure_ready"
	EventEnsureFail     = "ensure_fail"
	EventTerminateStart = "terminate_start"
	EventTerminateDone  = "terminate_done"
	EventProcessKilled  = "process_killed"
	EventRunSpawn       = "run_spawn"
	EventRunDone        = "run_done"
	EventRunTimeout     = "run_timeout"
)

// Event represents a manager lifecycle event: name, model and optional fields.
type Event struct {
	Name    string
	ModelID string
	Fields  map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// MemoryPublisher records events in memory. Used by tests and /status debugging.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Named returns the recorded events with the given name, in publish order.
func (p *MemoryPublisher) Named(name string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for _, e := range p.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
