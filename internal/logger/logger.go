// Package logger builds the structured logger shared by every component.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects output format and level.
type Config struct {
	Env   string // development -> human readable console; otherwise JSON
	Level string // trace, debug, info, warn, error
}

// New creates the process logger and installs it as zerolog's global logger
// for libraries that log through it.
func New(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	return build(w, cfg.Level)
}

func build(w io.Writer, level string) zerolog.Logger {
	zl := zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Str("app", "warehouse").Logger()
	log.Logger = zl
	return zl
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
