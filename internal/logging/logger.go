package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the zap levels used by callers of Log.
type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Logger is a thin key/value wrapper around a sugared zap logger
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a console logger in development and a JSON logger otherwise.
// It falls back to a no-op logger if zap cannot be configured.
func NewLogger(development bool) *Logger {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return Nop()
	}

	return &Logger{sugar: base.Sugar()}
}

// New wraps an existing zap logger, e.g. one from zaptest.
func New(base *zap.Logger) *Logger {
	return &Logger{sugar: base.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// WithFields returns a child logger that always carries the given fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &Logger{sugar: l.sugar.With(kv...)}
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Log writes at a level chosen at runtime
func (l *Logger) Log(_ context.Context, level Level, msg string, keysAndValues ...any) {
	l.sugar.Logw(level, msg, keysAndValues...)
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
