package manager

import (
	"strings"
	"sync"
)

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func newTailBuffer(max int) *tailBuffer { return &tailBuffer{max: max} }

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}

// baseModelName strips the tag from a model identifier: "llama3:8b" -> "llama3".
func baseModelName(model string) string {
	base, _, _ := strings.Cut(model, ":")
	return base
}

// resolveModel applies the default model to an empty identifier.
func (m *Manager) resolveModel(model string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = m.cfg.DefaultModel
	}
	if model == "" {
		return "", ErrModelNotFound("(unspecified)")
	}
	return model, nil
}
