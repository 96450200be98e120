// Package logger provides leveled stderr logging for claimcheck on top of
// log/slog. Debug, Info and Warn are only emitted in verbose mode; Error is
// always emitted so that no call-site failure is silent.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu    sync.RWMutex
	level = new(slog.LevelVar)
	log   *slog.Logger
)

func init() {
	level.Set(slog.LevelError)
	log = newLogger(os.Stderr)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetVerbose lowers the level to Debug, or raises it back to Error.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelError)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	return level.Level() <= slog.LevelDebug
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(w)
}

// Logger returns the underlying slog logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(slog.LevelDebug, format, args...)
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(slog.LevelInfo, format, args...)
}

// Warn logs a warning if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(slog.LevelWarn, format, args...)
}

// Error always logs.
func Error(format string, args ...any) {
	logf(slog.LevelError, format, args...)
}

func logf(lvl slog.Level, format string, args ...any) {
	ctx := context.Background()
	l := Logger()
	if !l.Enabled(ctx, lvl) {
		return
	}
	l.Log(ctx, lvl, fmt.Sprintf(format, args...))
}
