// Package monitoring provides the diagnostic loggers used across spotmotion:
// a replaceable printf-style Logf for library code and a leveled slog logger
// for the command line.
package monitoring

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger or RouteTo. Tests can mute it with SetLogger(nil).
var Logf func(format string, v ...interface{}) = log.Printf

// Tracef receives per-spot delivery detail. It is a no-op until RouteTo
// installs a logger.
var Tracef func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil will set a no-op logger
// and also mutes Tracef.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		Tracef = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// LevelTrace sits below Debug and enables per-spot delivery logging.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps "info", "debug" or "trace" (any case) to a slog.Level.
// Unknown values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s names a supported level. Empty means default.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info", "debug", "trace":
		return true
	}
	return false
}

// NewLogger creates a leveled text logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RouteTo sends Logf output through l at the given level and Tracef output
// at LevelTrace.
func RouteTo(l *slog.Logger, level slog.Level) {
	if l == nil {
		SetLogger(nil)
		return
	}
	SetLogger(func(format string, v ...interface{}) {
		l.Log(context.Background(), level, fmt.Sprintf(format, v...))
	})
	Tracef = func(format string, v ...interface{}) {
		if l.Enabled(context.Background(), LevelTrace) {
			l.Log(context.Background(), LevelTrace, fmt.Sprintf(format, v...))
		}
	}
}
