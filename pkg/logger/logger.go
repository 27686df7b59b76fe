package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

var (
	defaultLogger *slog.Logger
	level         = new(slog.LevelVar)
)

func Init(env string) {
	var handler slog.Handler

	if env == "production" {
		level.Set(slog.LevelInfo)
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		level.Set(slog.LevelDebug)
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}

// L is a short alias of LoggerWrapper.
func L() *slog.Logger {
	return LoggerWrapper()
}

// SetLevel changes the level of the default logger at runtime.
// Unknown names leave the current level untouched and return false.
func SetLevel(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return false
	}
	return true
}

// Level reports the current level of the default logger.
func Level() slog.Level {
	return level.Level()
}

// Wrap decorates the handler of the default logger, for example to tee
// records into another sink.
func Wrap(wrap func(slog.Handler) slog.Handler) *slog.Logger {
	defaultLogger = slog.New(wrap(LoggerWrapper().Handler()))
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

type ctxKey struct{}

// With returns a context whose logger carries the given fields on top of
// whatever the parent context already had.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// From returns the request-scoped logger, or the default logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
