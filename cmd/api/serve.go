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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/voice-companion/backend/internal/config"
	"github.com/zhouzirui/voice-companion/backend/internal/handler"
	"github.com/zhouzirui/voice-companion/backend/internal/service/ai"
	"github.com/zhouzirui/voice-companion/backend/internal/service/speech"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	personaStore, err := loadPersonas(cfg.Personas)
	if err != nil {
		return fmt.Errorf("failed to load personas: %w", err)
	}

	deps := handler.Dependencies{
		Server:   cfg.Server,
		APIKey:   cfg.Auth.APIKey,
		Personas: personaStore,
		Model:    cfg.OpenAI.DefaultModel,
	}

	// Clients stay nil interfaces when unconfigured so the handlers answer
	// Server misconfiguration instead of calling upstream.
	if cfg.Deepgram.Enabled() {
		speechClient, err := speech.NewClient(cfg.Deepgram.APIKey,
			speech.WithBaseURL(cfg.Deepgram.BaseURL),
			speech.WithTimeout(cfg.Deepgram.Timeout),
		)
		if err != nil {
			return fmt.Errorf("failed to initialize deepgram client: %w", err)
		}
		deps.Speech = speechClient
	} else {
		log.Warn().Msg("DEEPGRAM_API_KEY not set, token route will report misconfiguration")
	}

	if cfg.OpenAI.Enabled() {
		aiClient, err := ai.NewClient(cfg.OpenAI.APIKey,
			ai.WithBaseURL(cfg.OpenAI.BaseURL),
			ai.WithTimeout(cfg.OpenAI.Timeout),
		)
		if err != nil {
			return fmt.Errorf("failed to initialize openai client: %w", err)
		}
		deps.Chat = aiClient
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, chat routes will report misconfiguration")
	}

	if cfg.Auth.APIKey == "" {
		log.Warn().Str("env", cfg.Server.Env).Msg("API_KEY not set")
	}

	return startServer(ctx, cfg.Server, handler.NewRouter(deps))
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().
		Str("addr", serverCfg.Addr).
		Str("env", serverCfg.Env).
		Strs("allowed_origins", serverCfg.AllowedOrigins).
		Msg("voice companion backend listening")
	if err := runServer(ctx, srv); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
