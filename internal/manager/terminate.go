package manager

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"
)

// TerminateAll stops every registered runtime process not serving except
// (all of them when except is empty), then sweeps the OS for stray processes
// whose name or command line carries the runtime signature. Processes that are
// registered at sweep time, this process and its parent are never touched.
// It returns the number of processes actually signalled.
func (m *Manager) TerminateAll(ctx context.Context, except string) int {
	start := time.Now()
	m.publish(Event{Name: EventTerminateStart, ModelID: except, Fields: map[string]any{"except": except}})

	handled := make(map[int]bool)
	registered := m.terminateRegistered(ctx, except, handled)
	swept := m.sweep(ctx, handled)
	total := registered + swept

	m.mu.Lock()
	m.terminatedTotal += uint64(total)
	m.mu.Unlock()

	m.log.Info().
		Str("event", EventTerminateDone).
		Str("except", except).
		Int("registered", registered).
		Int("swept", swept).
		Dur("took", time.Since(start)).
		Msg("terminate pass complete")
	m.publish(Event{Name: EventTerminateDone, ModelID: except, Fields: map[string]any{
		"registered": registered,
		"swept":      swept,
		"dur_ms":     time.Since(start).Milliseconds(),
	}})
	return total
}

// terminateRegistered stops registered processes not serving except and
// unregisters them. Every pid seen is recorded in handled.
func (m *Manager) terminateRegistered(ctx context.Context, except string, handled map[int]bool) int {
	count := 0
	for pid, e := range m.procs.Snapshot() {
		handled[pid] = true
		if except != "" && e.Model == except {
			continue
		}
		if m.terminateProcess(ctx, pid) {
			count++
			terminationsTotal.WithLabelValues("registry").Inc()
		}
		m.procs.Unregister(pid)
	}
	return count
}

func (m *Manager) sweep(ctx context.Context, skip map[int]bool) int {
	signature := strings.ToLower(m.cfg.RuntimeSignature)
	if signature == "" {
		return 0
	}
	procs, err := m.ctl.Enumerate(ctx)
	if err != nil {
		m.log.Warn().Err(err).Int("listed", len(procs)).Msg("process scan incomplete")
	}
	self, parent := os.Getpid(), os.Getppid()
	count := 0
	for _, p := range procs {
		if p.PID <= 0 || p.PID == self || p.PID == parent || skip[p.PID] {
			continue
		}
		if !p.matches(signature) || m.procs.Contains(p.PID) {
			continue
		}
		if m.terminateProcess(ctx, p.PID) {
			count++
			terminationsTotal.WithLabelValues("sweep").Inc()
		}
	}
	return count
}

// terminateProcess asks the group of pid to stop, waits up to the grace period
// and force-kills whatever is left. It reports whether a signal was delivered.
// Vanished and permission-denied processes are skipped silently.
func (m *Manager) terminateProcess(ctx context.Context, pid int) bool {
	gracefulErr := m.ctl.GracefulStop(pid)
	switch {
	case errors.Is(gracefulErr, errProcessGone):
		return false
	case errors.Is(gracefulErr, errPermission):
		m.log.Debug().Int("pid", pid).Msg("terminate skipped: permission denied")
		return false
	case gracefulErr == nil && m.waitExit(ctx, pid):
		m.publish(Event{Name: EventProcessKilled, Fields: map[string]any{"pid": pid, "forced": false}})
		return true
	case gracefulErr != nil:
		m.log.Warn().Err(gracefulErr).Int("pid", pid).Msg("graceful stop failed; forcing")
	}

	err := m.ctl.ForceKill(pid)
	switch {
	case err == nil:
		m.log.Info().Int("pid", pid).Msg("process force-killed after grace period")
		m.publish(Event{Name: EventProcessKilled, Fields: map[string]any{"pid": pid, "forced": true}})
		return true
	case errors.Is(err, errProcessGone):
		// Exited between the grace deadline and the kill.
		return gracefulErr == nil
	case errors.Is(err, errPermission):
		return gracefulErr == nil
	default:
		m.log.Warn().Err(err).Int("pid", pid).Msg("force kill failed")
		return gracefulErr == nil
	}
}

// waitExit polls liveness of pid until it exits or the grace period ends.
func (m *Manager) waitExit(ctx context.Context, pid int) bool {
	deadline := time.NewTimer(m.cfg.GracePeriod)
	defer deadline.Stop()
	tick := time.NewTicker(m.cfg.PollInterval)
	defer tick.Stop()
	for {
		if !m.ctl.Alive(pid) {
			return true
		}
		select {
		case <-tick.C:
		case <-deadline.C:
			return !m.ctl.Alive(pid)
		case <-ctx.Done():
			return false
		}
	}
}
