package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FromContext returns a zerolog.Logger stored in context, or a no-op logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return zerolog.Nop()
	}
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

type loggerKey struct{}

// New builds a structured logger: JSON lines in production, console output
// everywhere else.
func New(appName, env, level string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if env != "production" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}
	}
	return newLogger(out, appName, env, level)
}

func newLogger(out io.Writer, appName, env, level string) zerolog.Logger {
	return zerolog.New(out).Level(ParseLevel(level)).With().
		Timestamp().
		Str("app", appName).
		Str("env", env).
		Logger()
}

// ParseLevel falls back to info for empty or unknown names.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// IntoContext injects a logger into context for downstream use.
func IntoContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
