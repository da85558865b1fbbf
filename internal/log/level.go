package log

import (
	"log/slog"
	"strings"
)

// Level is a log severity. The values are slog's, so they compare the same way.
type Level slog.Level

// LevelDebug carries HTTP requests, storage reads and route hops. LevelWarn
// carries discarded session data and failed refetches.
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// String returns DEBUG, INFO, WARN or ERROR
func (l Level) String() string {
	return slog.Level(l).String()
}

// ParseLevel parses a case-insensitive level name. Unknown names map to LevelWarn,
// the CLI's default verbosity.
func ParseLevel(s string) Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return LevelWarn
	}
	return Level(lvl)
}
