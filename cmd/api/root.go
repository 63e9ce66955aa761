package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/voice-companion/backend/internal/config"
	"github.com/zhouzirui/voice-companion/backend/internal/logging"
	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
)

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Voice companion backend",
	Long: `Voice companion backend.

Issues short-lived speech API tokens and proxies chat completions to the
language-model API, injecting a persona system prompt when requested.
Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE:         serve,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads .env (when present) and the environment, then installs
// the global logger.
func loadConfig() (*config.Config, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log, nil)

	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file loaded, using process environment only")
	}
	return cfg, nil
}

// loadPersonas returns the persona registry: the file named by PERSONAS_FILE
// when set, otherwise the built-in seed.
func loadPersonas(cfg config.PersonaConfig) (*persona.MemoryStore, error) {
	if cfg.File == "" {
		return persona.NewMemoryStore(persona.Seed()), nil
	}
	items, err := persona.LoadFile(cfg.File)
	if err != nil {
		return nil, err
	}
	return persona.NewMemoryStore(items), nil
}
