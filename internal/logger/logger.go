// Package logger builds the process-wide structured logger.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger for the named service. Unknown levels
// fall back to info. When format is "console" the output is rendered
// for humans instead of JSON.
func New(service, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if format != "console" {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		return zerolog.New(os.Stderr).With().Timestamp().Str("service", service).Logger().Level(lvl)
	}

	return zerolog.New(out).With().Timestamp().Str("service", service).Logger().Level(lvl)
}
