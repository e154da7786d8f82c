package manager

import (
	"context"

	"mopra/internal/registry"
	"mopra/pkg/types"
)

// ListModels returns the models the local runtime has on disk.
func (m *Manager) ListModels(ctx context.Context) ([]types.Model, error) {
	return registry.List(ctx, m.cfg.RuntimeBin)
}
