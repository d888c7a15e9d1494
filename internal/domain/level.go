package domain

import (
	"fmt"
	"strings"
)

// Level is the severity of a log entry. The set is closed: anything the
// parser does not recognize is LevelUnknown.
type Level int

const (
	LevelUnknown Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

// Levels returns every level in display order, most severe first.
func Levels() []Level {
	return []Level{LevelError, LevelWarning, LevelInfo, LevelDebug, LevelTrace, LevelUnknown}
}

// String returns the string representation of Level
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether l is one of the defined levels
func (l Level) Valid() bool {
	return l >= LevelUnknown && l <= LevelTrace
}

// ParseLevel matches s case-insensitively against the level vocabulary.
// WARN and ERR are accepted as aliases. The boolean is false when s is not
// a level word; "UNKNOWN" itself is a valid word and reports true.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR", "ERR":
		return LevelError, true
	case "WARNING", "WARN":
		return LevelWarning, true
	case "INFO":
		return LevelInfo, true
	case "DEBUG":
		return LevelDebug, true
	case "TRACE":
		return LevelTrace, true
	case "UNKNOWN":
		return LevelUnknown, true
	default:
		return LevelUnknown, false
	}
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(text []byte) error {
	lvl, ok := ParseLevel(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, string(text))
	}
	*l = lvl
	return nil
}
