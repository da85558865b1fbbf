// Package log is biblio's structured logger, a thin layer over log/slog.
//
// Records from a context that carries a trace span get trace_id and span_id, and
// values under password, token or authorization keys are redacted.
package log

import (
	"context"
	"errors"
	"io"
	"log/slog"

	berrors "github.com/felixgeelhaar/biblio/internal/errors"
)

// Logger wraps a *slog.Logger with the config it was built from
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New builds a logger; a nil Output means stderr
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = DefaultConfig().Output
	}

	l := slog.New(newHandler(cfg))
	if cfg.ServiceName != "" {
		l = l.With("service", cfg.ServiceName)
	}
	return &Logger{slog: l, config: cfg}
}

// Discard drops everything
func Discard() *Logger {
	return New(Config{Level: LevelError, Output: io.Discard})
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), config: l.config}
}

// WithError attaches err. A BiblioError adds its code and cause as separate keys.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	var be *berrors.BiblioError
	if !errors.As(err, &be) {
		return l.With("error", err.Error())
	}

	args := []any{"error", be.Message, "error_code", string(be.Code)}
	if be.Cause != nil {
		args = append(args, "cause", be.Cause.Error())
	}
	return l.With(args...)
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slog.DebugContext(ctx, msg, args...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slog.WarnContext(ctx, msg, args...)
}

// Enabled reports whether records at level are written
func (l *Logger) Enabled(ctx context.Context, level Level) bool {
	return l.slog.Enabled(ctx, slog.Level(level))
}

// Config returns the configuration the logger was built from
func (l *Logger) Config() Config {
	return l.config
}
