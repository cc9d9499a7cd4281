package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a JSON zerolog logger writing to stdout at the provided level.
// If the level string is invalid it defaults to info.
func New(level string) *zerolog.Logger {
	return newWithWriter(os.Stdout, level)
}

// Console creates a human-readable logger for interactive tools.
func Console(level string) *zerolog.Logger {
	return newWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, level)
}

// Discard returns a logger that drops all output. Useful for tests.
func Discard() *zerolog.Logger {
	logger := zerolog.New(io.Discard).Level(zerolog.Disabled)
	return &logger
}

func newWithWriter(w io.Writer, level string) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &logger
}
