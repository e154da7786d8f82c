package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Manager is the exclusive local-inference orchestrator. It owns the current
// model, the process registry and the admission slots; all of them are only
// reachable through its methods.
type Manager struct {
	cfg       ManagerConfig
	log       zerolog.Logger
	publisher EventPublisher
	ctl       processController
	procs     *ProcessRegistry

	// loadMu serializes load/evict sequences and runtime spawns process-wide.
	// Lock order: loadMu, then mu, then the registry lock.
	loadMu sync.Mutex

	mu              sync.RWMutex
	state           State
	current         string
	err             string
	loadsTotal      uint64
	terminatedTotal uint64

	// Queueing primitives: a single in-flight generation, bounded waiters.
	genCh   chan struct{}
	queueCh chan struct{}

	startTime time.Time
}

// New constructs a Manager for the given runtime binary with package defaults.
func New(runtimeBin, defaultModel string) *Manager {
	return NewWithConfig(ManagerConfig{RuntimeBin: runtimeBin, DefaultModel: defaultModel})
}

// NewWithConfig constructs a Manager from ManagerConfig, applying defaults.
func NewWithConfig(cfg ManagerConfig) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "manager").Logger(),
		publisher: cfg.Publisher,
		ctl:       newProcessController(),
		procs:     NewProcessRegistry(),
		state:     StateIdle,
		genCh:     make(chan struct{}, 1),
		queueCh:   make(chan struct{}, cfg.MaxQueueDepth),
		startTime: time.Now(),
	}
}

// SetEventPublisher installs an EventPublisher; nil restores the no-op publisher.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		p = noopPublisher{}
	}
	m.publisher = p
}

func (m *Manager) publish(e Event) {
	m.mu.RLock()
	p := m.publisher
	m.mu.RUnlock()
	if e.Fields == nil {
		e.Fields = map[string]any{}
	}
	p.Publish(e)
}

// CurrentModel returns the model considered loaded, or "" when none is.
func (m *Manager) CurrentModel() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// DefaultModel returns the model used when a request omits one.
func (m *Manager) DefaultModel() string { return m.cfg.DefaultModel }

// RuntimeBin returns the configured runtime executable.
func (m *Manager) RuntimeBin() string { return m.cfg.RuntimeBin }

// Processes exposes the registry of live runtime subprocesses.
func (m *Manager) Processes() *ProcessRegistry { return m.procs }

// Ready reports whether the runtime binary can be executed.
func (m *Manager) Ready() bool {
	return m.SanityCheck().RuntimeFound
}

func (m *Manager) setState(s State, errMsg string) {
	m.mu.Lock()
	m.state = s
	m.err = errMsg
	m.mu.Unlock()
}
