// Package logger builds the zerolog loggers shared by the binaries.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a timestamped logger at the given level ("debug", "info", ...).
// An unknown level falls back to info. pretty switches to the console writer.
func New(level string, pretty bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
