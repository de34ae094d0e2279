// Package logger provides structured diagnostic logging for gauntlet
// using zap. Stage banners and pass/fail lines go to stdout directly;
// this logger carries the --verbose diagnostics (resolved paths, argv,
// timings) that would otherwise clutter the run output.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// defaultLogger is used when no logger is attached to the context.
var defaultLogger = zap.NewNop()

// Setup initializes the default logger. With verbose enabled the logger
// writes human-readable debug output to stderr; otherwise diagnostics
// are discarded.
func Setup(verbose bool) {
	if !verbose {
		defaultLogger = zap.NewNop()
		return
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	log, err := cfg.Build()
	if err != nil {
		defaultLogger = zap.NewNop()
		return
	}
	defaultLogger = log
}

// key is the context key for logger instances.
type key struct{}

// Get retrieves the logger from ctx, falling back to the default logger.
func Get(ctx context.Context) *zap.Logger {
	if log, _ := ctx.Value(key{}).(*zap.Logger); log != nil {
		return log
	}
	return defaultLogger
}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, log)
}

// WithFields returns a context whose logger includes the given fields.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// Debug logs a message at debug level with the given fields.
func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

// Info logs a message at info level with the given fields.
func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

// Warn logs a message at warn level with the given fields.
func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

// Error logs a message at error level with the given fields.
func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}
