package manager

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultRuntimeBin    = "ollama"
	defaultModelName     = "phi3"
	defaultLoadTimeout   = 5 * time.Minute
	defaultRunTimeout    = 120 * time.Second
	defaultIdleTimeout   = 30 * time.Second
	defaultGracePeriod   = 3 * time.Second
	defaultPollInterval  = 100 * time.Millisecond
	defaultMaxQueueDepth = 8
	defaultMaxWait       = 3 * time.Minute

	// stderrTailBytes bounds the diagnostics kept from a runtime subprocess.
	stderrTailBytes = 4096
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// RuntimeBin is the local inference runtime executable. It must accept
	// `pull <model>`, `run <model> <prompt>` and `list`.
	RuntimeBin string
	// RuntimeSignature is matched (case-insensitive) against process names and
	// command lines during the sweep. Defaults to the base name of RuntimeBin.
	RuntimeSignature string
	// DefaultModel is used when a request omits the model.
	DefaultModel string

	LoadTimeout  time.Duration
	RunTimeout   time.Duration
	IdleTimeout  time.Duration
	GracePeriod  time.Duration
	PollInterval time.Duration

	// Admission for local generations: one in flight, the rest queued.
	MaxQueueDepth int
	MaxWait       time.Duration

	Logger    zerolog.Logger
	Publisher EventPublisher
}

// withDefaults returns a copy of cfg with every unset field defaulted.
func (cfg ManagerConfig) withDefaults() ManagerConfig {
	if strings.TrimSpace(cfg.RuntimeBin) == "" {
		cfg.RuntimeBin = defaultRuntimeBin
	}
	if cfg.RuntimeSignature == "" {
		cfg.RuntimeSignature = runtimeSignature(cfg.RuntimeBin)
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = defaultModelName
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = defaultGracePeriod
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxQueueDepth <= 0 {
		cfg.MaxQueueDepth = defaultMaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}
	return cfg
}

// runtimeSignature derives the sweep signature from the runtime binary path:
// "/usr/local/bin/ollama.exe" -> "ollama".
func runtimeSignature(bin string) string {
	base := strings.ToLower(filepath.Base(strings.TrimSpace(bin)))
	return strings.TrimSuffix(base, ".exe")
}
