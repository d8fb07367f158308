package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level represents logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps a level name (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Logger writes leveled, human-readable diagnostic lines.
// A nil *Logger discards everything.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level Level) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{out: w, level: level}
}

// Default logs to stderr at info level.
func Default() *Logger { return New(os.Stderr, LevelInfo) }

// Level returns the current verbosity.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelError
	}
	return l.level
}

func (l *Logger) printf(level Level, prefix, format string, args ...any) {
	if l == nil || level > l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s%s\n", prefix, strings.TrimRight(msg, "\n"))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf(LevelError, "✗ Error: ", format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.printf(LevelWarn, "⚠ Warning: ", format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.printf(LevelInfo, "ℹ ", format, args...)
}

// Successf reports a completed step (e.g. an artifact written).
func (l *Logger) Successf(format string, args ...any) {
	l.printf(LevelInfo, "✓ ", format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.printf(LevelDebug, "[debug] ", format, args...)
}
