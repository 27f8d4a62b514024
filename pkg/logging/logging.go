// Package logging builds the zerolog loggers handed to cache instances.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger for cache diagnostics. With debug false only
// option warnings are visible; debug true also shows per-operation traces.
// A nil out writes to stderr.
func New(debug bool, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// ComponentLogger tags a logger with the component emitting through it.
func ComponentLogger(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
