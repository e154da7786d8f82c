package manager

import (
	"context"

	"github.com/google/uuid"
)

// Switch kicks off an asynchronous EnsureLoaded and returns an operation ID.
// Callers can poll Status() to observe the transition; the outcome is also
// published as ensure_ready or ensure_fail.
func (m *Manager) Switch(ctx context.Context, model string) (string, error) {
	model, err := m.resolveModel(model)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	op := uuid.NewString()
	m.log.Info().Str("op", op).Str("model", model).Msg("switch requested")
	go func() {
		// Detached: the switch outlives the request that asked for it.
		if err := m.EnsureLoaded(context.Background(), model); err != nil {
			m.log.Warn().Str("op", op).Err(err).Msg("switch failed")
		}
	}()
	return op, nil
}
