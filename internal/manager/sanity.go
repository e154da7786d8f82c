package manager

import "os/exec"

// SanityReport describes runtime checks for external dependencies.
type SanityReport struct {
	RuntimeFound bool   `json:"runtime_found"`
	RuntimePath  string `json:"runtime_path,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SanityCheck validates that the runtime binary can be resolved.
// It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	path, err := exec.LookPath(m.cfg.RuntimeBin)
	if err != nil {
		return SanityReport{RuntimePath: m.cfg.RuntimeBin, Error: err.Error()}
	}
	return SanityReport{RuntimeFound: true, RuntimePath: path}
}
