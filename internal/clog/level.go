// Package clog is pinwarden's operational log. It is separate from the
// protocol stream on stdout, which it never writes, and from the session
// transcript (see internal/audit).
//
// File output receives every message at or above the configured level.
// Stderr receives Warn and Error only, unless quiet mode is on.
package clog

import "strings"

// Level is the severity of a log message.
type Level int

const (
	// LevelDebug traces directives and replies. Off unless --debug.
	LevelDebug Level = iota
	// LevelInfo records session milestones.
	LevelInfo
	// LevelWarn is a problem the session survives.
	LevelWarn
	// LevelError is a failure that ends the session.
	LevelError
)

// String returns the uppercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, ignoring case. Unknown names are
// LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error", "err":
		return LevelError
	default:
		return LevelInfo
	}
}
