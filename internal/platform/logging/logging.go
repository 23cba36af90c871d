// Package logging provides the zerolog logger shared by the server and the CLI,
// and carries request-scoped loggers through context.Context.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init configures the global logger. An unknown level falls back to info.
// If human is true, output goes through a console writer instead of JSON.
func Init(level string, human bool) {
	InitWriter(os.Stderr, level, human)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string, human bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	out := w
	if human {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	logger = zerolog.New(out).With().Timestamp().Logger()
}

// L returns the base logger.
func L() *zerolog.Logger {
	return &logger
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(name string) *zerolog.Logger {
	l := logger.With().Str("component", name).Logger()
	return &l
}

// SetLogger overrides the global logger (useful for testing).
func SetLogger(l zerolog.Logger) {
	logger = l
}

type loggerKey struct{}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored in ctx, or the global logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return &l
		}
	}
	return &logger
}
