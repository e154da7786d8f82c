package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mopra/internal/config"
	"mopra/internal/httpapi"
	"mopra/internal/memory"
	"mopra/internal/remote"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Start the HTTP API server (default command)",
		Example: "  mopra serve --addr :5000 --default-model llama3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	mgr := newManager(cfg, log)
	if rep := mgr.SanityCheck(); !rep.RuntimeFound {
		log.Warn().Str("runtime", cfg.RuntimeBin).Str("error", rep.Error).Msg("runtime not found; /readyz will report unavailable")
	}
	mem := memory.New(cfg.MemorySize)
	router := remote.NewRouter(remoteConfig(cfg, log))
	log.Info().Strs("platforms", router.Platforms()).Msg("remote platforms configured")

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(cfg.LogLevel)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr, mem, router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("runtime", cfg.RuntimeBin).Str("default_model", cfg.DefaultModel).Msg("mopra listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		mgr.Close(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	mgr.Close(shutdownCtx)
	return nil
}

func remoteConfig(cfg config.Config, log zerolog.Logger) remote.Config {
	return remote.Config{
		OpenAIKey:     cfg.APIKeys.OpenAI,
		AnthropicKey:  cfg.APIKeys.Anthropic,
		GoogleKey:     cfg.APIKeys.Google,
		CopilotKey:    cfg.APIKeys.Copilot,
		DeepSeekKey:   cfg.APIKeys.DeepSeek,
		Timeout:       cfg.RemoteTimeout.Std(),
		RatePerSecond: cfg.RemoteRate,
		Burst:         cfg.RemoteBurst,
		Logger:        log,
	}
}
