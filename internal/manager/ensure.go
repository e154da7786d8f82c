package manager

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// EnsureLoaded makes model the current model: other runtime processes are
// terminated and the model is pulled, bounded by the load timeout. A request
// for the model that is already current is a no-op. An empty model means the
// default model. On failure the current model is left unchanged.
func (m *Manager) EnsureLoaded(ctx context.Context, model string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	return m.ensureLoadedLocked(ctx, model)
}

// ensureLoadedLocked requires loadMu to be held.
func (m *Manager) ensureLoadedLocked(ctx context.Context, model string) error {
	model, err := m.resolveModel(model)
	if err != nil {
		return err
	}
	if m.CurrentModel() == model {
		return nil
	}

	start := time.Now()
	m.log.Info().Str("event", EventEnsureStart).Str("model", model).Msg("loading model")
	m.publish(Event{Name: EventEnsureStart, ModelID: model})
	m.setState(StateLoading, "")

	m.TerminateAll(ctx, model)

	if err := m.pull(ctx, model); err != nil {
		m.setState(StateError, err.Error())
		loadsTotal.WithLabelValues("fail").Inc()
		m.log.Error().Err(err).Str("event", EventEnsureFail).Str("model", model).Msg("model load failed")
		m.publish(Event{Name: EventEnsureFail, ModelID: model, Fields: map[string]any{"error": err.Error()}})
		return err
	}

	m.mu.Lock()
	m.current = model
	m.state = StateReady
	m.err = ""
	m.loadsTotal++
	m.mu.Unlock()

	loadsTotal.WithLabelValues("ok").Inc()
	dur := time.Since(start)
	m.log.Info().Str("event", EventEnsureReady).Str("model", model).Dur("took", dur).Msg("model ready")
	m.publish(Event{Name: EventEnsureReady, ModelID: model, Fields: map[string]any{"dur_ms": dur.Milliseconds()}})
	return nil
}

// pull runs `<runtime> pull <model>` in its own process group. The whole
// group is killed when the load timeout or ctx expires.
func (m *Manager) pull(ctx context.Context, model string) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.LoadTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.cfg.RuntimeBin, "pull", model)
	configureProcessGroup(cmd)
	cmd.Cancel = func() error {
		if err := m.ctl.ForceKill(cmd.Process.Pid); err != nil && !errors.Is(err, errProcessGone) {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = m.cfg.GracePeriod
	stderr := newTailBuffer(stderrTailBytes)
	cmd.Stderr = stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return loadFailureError{model: model, reason: fmt.Sprintf("timed out after %s", m.cfg.LoadTimeout), err: ctx.Err()}
	case ctx.Err() != nil:
		return loadFailureError{model: model, reason: ctx.Err().Error(), err: ctx.Err()}
	}
	reason := err.Error()
	if tail := stderr.String(); tail != "" {
		reason += ": " + tail
	}
	return loadFailureError{model: model, reason: reason, err: err}
}
