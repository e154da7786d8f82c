package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"mopra/internal/common/fsutil"
)

// EnvPrefix prefixes every service variable: MOPRA_ADDR, MOPRA_RUN_TIMEOUT, ...
const EnvPrefix = "MOPRA_"

// APIKeys holds remote provider credentials. Read from the conventional
// unprefixed variables (OPENAI_API_KEY, ...) as well as MOPRA_-prefixed ones.
type APIKeys struct {
	OpenAI    string `json:"openai" yaml:"openai" toml:"openai" env:"OPENAI_API_KEY"`
	Anthropic string `json:"anthropic" yaml:"anthropic" toml:"anthropic" env:"ANTHROPIC_API_KEY"`
	Google    string `json:"google" yaml:"google" toml:"google" env:"GOOGLE_API_KEY"`
	Copilot   string `json:"copilot" yaml:"copilot" toml:"copilot" env:"GITHUB_COPILOT_API_KEY"`
	DeepSeek  string `json:"deepseek" yaml:"deepseek" toml:"deepseek" env:"DEEPSEEK_API_KEY"`
}

// Config holds runtime parameters for the service.
// Durations are written as Go duration strings ("30s", "5m").
type Config struct {
	Addr             string `json:"addr" yaml:"addr" toml:"addr" env:"ADDR" validate:"required"`
	RuntimeBin       string `json:"runtime_bin" yaml:"runtime_bin" toml:"runtime_bin" env:"RUNTIME_BIN" validate:"required"`
	RuntimeSignature string `json:"runtime_signature" yaml:"runtime_signature" toml:"runtime_signature" env:"RUNTIME_SIGNATURE"`
	DefaultModel     string `json:"default_model" yaml:"default_model" toml:"default_model" env:"DEFAULT_MODEL" validate:"required"`

	LoadTimeout  Duration `json:"load_timeout" yaml:"load_timeout" toml:"load_timeout" env:"LOAD_TIMEOUT" validate:"gt=0"`
	RunTimeout   Duration `json:"run_timeout" yaml:"run_timeout" toml:"run_timeout" env:"RUN_TIMEOUT" validate:"gt=0"`
	IdleTimeout  Duration `json:"idle_timeout" yaml:"idle_timeout" toml:"idle_timeout" env:"IDLE_TIMEOUT" validate:"gt=0"`
	GracePeriod  Duration `json:"grace_period" yaml:"grace_period" toml:"grace_period" env:"GRACE_PERIOD" validate:"gt=0"`
	PollInterval Duration `json:"poll_interval" yaml:"poll_interval" toml:"poll_interval" env:"POLL_INTERVAL" validate:"gt=0"`

	MaxQueueDepth int      `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth" env:"MAX_QUEUE_DEPTH" validate:"gte=1,lte=1024"`
	MaxWait       Duration `json:"max_wait" yaml:"max_wait" toml:"max_wait" env:"MAX_WAIT" validate:"gt=0"`

	MemorySize   int   `json:"memory_size" yaml:"memory_size" toml:"memory_size" env:"MEMORY_SIZE" validate:"gte=1"`
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" env:"MAX_BODY_BYTES" validate:"gte=1024"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level" env:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" env:"LOG_FORMAT" validate:"omitempty,oneof=console json"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled" env:"CORS_ENABLED"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`

	RemoteRate    float64  `json:"remote_rate" yaml:"remote_rate" toml:"remote_rate" env:"REMOTE_RATE" validate:"gte=0"`
	RemoteBurst   int      `json:"remote_burst" yaml:"remote_burst" toml:"remote_burst" env:"REMOTE_BURST" validate:"gte=0"`
	RemoteTimeout Duration `json:"remote_timeout" yaml:"remote_timeout" toml:"remote_timeout" env:"REMOTE_TIMEOUT" validate:"gt=0"`

	APIKeys APIKeys `json:"api_keys" yaml:"api_keys" toml:"api_keys"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:          "127.0.0.1:5000",
		RuntimeBin:    "ollama",
		DefaultModel:  "phi3",
		LoadTimeout:   Duration(5 * time.Minute),
		RunTimeout:    Duration(120 * time.Second),
		IdleTimeout:   Duration(30 * time.Second),
		GracePeriod:   Duration(3 * time.Second),
		PollInterval:  Duration(100 * time.Millisecond),
		MaxQueueDepth: 8,
		MaxWait:       Duration(3 * time.Minute),
		MemorySize:    50,
		MaxBodyBytes:  1 << 20,
		LogLevel:      "info",
		LogFormat:     "console",
		RemoteRate:    1,
		RemoteBurst:   5,
		RemoteTimeout: Duration(60 * time.Second),
	}
}

// Resolve builds the effective configuration: defaults, then the config file
// at path (if any), then variables from dotenv (if the file exists) and the
// process environment. The result is validated.
func Resolve(path, dotenv string) (Config, error) {
	cfg := Default()
	if path != "" {
		p, err := fsutil.ExpandHome(path)
		if err != nil {
			return cfg, err
		}
		if err := LoadInto(p, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", p, err)
		}
	}
	if dotenv != "" && fsutil.PathExists(dotenv) {
		// Existing environment variables win over the file.
		if err := godotenv.Load(dotenv); err != nil {
			return cfg, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := ApplyEnv(&cfg, os.Environ()); err != nil {
		return cfg, err
	}
	bin, err := fsutil.ExpandHome(strings.TrimSpace(cfg.RuntimeBin))
	if err != nil {
		return cfg, err
	}
	cfg.RuntimeBin = bin
	return cfg, cfg.Validate()
}

// ApplyEnv overlays variables from environ (KEY=VALUE pairs) onto cfg.
// Unset variables leave the current value untouched.
func ApplyEnv(cfg *Config, environ []string) error {
	vars := env.ToMap(environ)
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix, Environment: vars}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if err := env.ParseWithOptions(&cfg.APIKeys, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse api keys: %w", err)
	}
	return nil
}
