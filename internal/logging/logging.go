// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/voice-companion/backend/internal/config"
)

const consoleTimeFormat = "15:04:05"

// Setup installs the global logger described by cfg, writing to out
// (os.Stdout when nil). Unknown levels fall back to info.
func Setup(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(out).With().
		Timestamp().
		Str("app", "voice-companion").
		Logger()
	log.Logger = logger
	return logger
}
