package manager

import (
	"time"

	"mopra/pkg/types"
)

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{State: m.state, CurrentModel: m.current, Err: m.err}
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	queued, inflight, capacity := m.QueueStats()
	m.mu.RLock()
	resp := types.StatusResponse{
		State:           string(m.state),
		CurrentModel:    m.current,
		DefaultModel:    m.cfg.DefaultModel,
		Error:           m.err,
		QueueLen:        queued,
		Inflight:        inflight,
		MaxQueueDepth:   capacity,
		LoadsTotal:      m.loadsTotal,
		TerminatedTotal: m.terminatedTotal,
		UptimeSeconds:   int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix:  time.Now().Unix(),
	}
	m.mu.RUnlock()

	entries := m.procs.Entries()
	resp.Processes = make([]types.ProcessStatus, 0, len(entries))
	for _, e := range entries {
		resp.Processes = append(resp.Processes, types.ProcessStatus{
			PID:         e.PID,
			Model:       e.Model,
			StartedUnix: e.StartedAt.Unix(),
		})
	}
	return resp
}
