package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mopra/internal/config"
	"mopra/internal/manager"
)

// options are the global flags. Set flags override the config file and
// environment.
type options struct {
	configPath   string
	envFile      string
	addr         string
	logLevel     string
	logFormat    string
	runtimeBin   string
	defaultModel string
	corsOrigins  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "mopra",
		Short:         "Exclusive local-inference orchestrator",
		Long:          "mopra keeps one local model loaded, runs prompts through the local runtime under timeouts and sweeps stray runtime processes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	bindFlags(root, opts)
	root.AddCommand(newServeCmd(opts), newSweepCmd(opts), newModelsCmd(opts))
	return root
}

func bindFlags(cmd *cobra.Command, opts *options) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "Dotenv file loaded when present; set variables win")
	pf.StringVar(&opts.addr, "addr", "", "HTTP listen address (default 127.0.0.1:5000)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: console|json")
	pf.StringVar(&opts.runtimeBin, "runtime-bin", "", "Local runtime executable (default ollama)")
	pf.StringVar(&opts.defaultModel, "default-model", "", "Model used when a request omits one (default phi3)")
	pf.StringVar(&opts.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")
}

// loadConfig resolves file, dotenv and environment, then applies set flags.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, err := config.Resolve(opts.configPath, opts.envFile)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.addr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if flags.Changed("runtime-bin") {
		cfg.RuntimeBin = opts.runtimeBin
	}
	if flags.Changed("default-model") {
		cfg.DefaultModel = opts.defaultModel
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins = splitCSV(opts.corsOrigins)
		cfg.CORSEnabled = len(cfg.CORSOrigins) > 0
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger.
func newLogger(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(level); err != nil {
			return zerolog.Nop(), fmt.Errorf("log level: %w", err)
		}
	}
	switch format {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func newManager(cfg config.Config, log zerolog.Logger) *manager.Manager {
	return manager.NewWithConfig(manager.ManagerConfig{
		RuntimeBin:       cfg.RuntimeBin,
		RuntimeSignature: cfg.RuntimeSignature,
		DefaultModel:     cfg.DefaultModel,
		LoadTimeout:      cfg.LoadTimeout.Std(),
		RunTimeout:       cfg.RunTimeout.Std(),
		IdleTimeout:      cfg.IdleTimeout.Std(),
		GracePeriod:      cfg.GracePeriod.Std(),
		PollInterval:     cfg.PollInterval.Std(),
		MaxQueueDepth:    cfg.MaxQueueDepth,
		MaxWait:          cfg.MaxWait.Std(),
		Logger:           log.With().Str("component", "manager").Logger(),
	})
}

// splitCSV splits a comma-separated list, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
