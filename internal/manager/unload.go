package manager

import (
	"context"
	"time"
)

// StopAll terminates every runtime process, registered or stray, and clears
// the current model. Returns the number of processes signalled.
func (m *Manager) StopAll(ctx context.Context) int {
	n := m.TerminateAll(ctx, "")
	m.loadMu.Lock()
	m.mu.Lock()
	m.current = ""
	m.state = StateIdle
	m.err = ""
	m.mu.Unlock()
	m.loadMu.Unlock()
	return n
}

// OptimizeRAM terminates every runtime process except those serving keep.
// The current model is not changed.
func (m *Manager) OptimizeRAM(ctx context.Context, keep string) int {
	return m.TerminateAll(ctx, keep)
}

// Close stops the processes this manager spawned, bounded by ctx. Stray
// processes are left alone. Safe to call more than once.
func (m *Manager) Close(ctx context.Context) int {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*m.cfg.GracePeriod+time.Second)
		defer cancel()
	}
	n := m.terminateRegistered(ctx, "", make(map[int]bool))
	if n > 0 {
		m.log.Info().Int("count", n).Msg("stopped runtime processes on shutdown")
	}
	return n
}
