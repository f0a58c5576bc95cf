// Package log is a leveled diagnostic logger for verbose output.
//
// Messages go to stderr by default. The TUI redirects them with SetOutput so
// they do not corrupt the alternate screen.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level atomic.Int64

	mu  sync.Mutex
	out io.Writer = os.Stderr
)

func init() {
	level.Store(int64(LevelWarn))
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Store(int64(l))
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return slog.Level(level.Load())
}

// SetOutput redirects log output and returns the previous writer.
// A nil writer discards output.
func SetOutput(w io.Writer) io.Writer {
	if w == nil {
		w = io.Discard
	}
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func emit(l slog.Level, format string, args ...any) {
	if slog.Level(level.Load()) > l {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "["+l.String()+"] "+format+"\n", args...)
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) { emit(LevelDebug, format, args...) }

// Info logs an info message if the level allows it.
func Info(format string, args ...any) { emit(LevelInfo, format, args...) }

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) { emit(LevelWarn, format, args...) }

// Error logs an error message (always emitted).
func Error(format string, args ...any) { emit(LevelError, format, args...) }
