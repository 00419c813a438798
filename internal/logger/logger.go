// Package logger wraps log/slog with the package-level logger
// runner.LogReporter writes through, rather than calling slog
// directly, so log format is changed in one place.
package logger

import (
	"log/slog"
	"os"
)

// Log is the shared logger. It defaults to warn-level text output on
// stderr; library callers embedding this module don't get unsolicited
// info-level chatter unless they call SetLevel.
var Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// SetLevel replaces Log with a handler at the given level, writing to
// the same stderr stream. Library callers who want Runner reporting
// visible at info level call this once at startup.
func SetLevel(level slog.Level) {
	Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("15:04:05"))
			}
			return a
		},
	}))
}
