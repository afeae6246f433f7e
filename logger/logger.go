// Package logger is the structured logging facade of go-fpsensor.
//
// Every component accepts a Logger through its WithLogger option and falls
// back to the package default, see GetLogger and SetDefault. Records carry
// key/value pairs; packet dumps, fragment counts and workflow stage
// transitions are logged at DebugLevel, command timeouts at WarnLevel and
// transport failures at ErrorLevel.
package logger

import "strings"

// Level is a logging severity.
type Level = int8

// LogLevel is an alias of Level.
type LogLevel = Level

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
	// FatalLevel records are followed by os.Exit(1).
	FatalLevel
)

var levelNames = map[string]Level{
	"debug":   DebugLevel,
	"info":    InfoLevel,
	"warn":    WarnLevel,
	"warning": WarnLevel,
	"error":   ErrorLevel,
	"fatal":   FatalLevel,
}

// ParseLevel converts a case-insensitive level name to a Level. Unknown
// names map to InfoLevel.
func ParseLevel(name string) Level {
	if level, ok := levelNames[strings.ToLower(name)]; ok {
		return level
	}

	return InfoLevel
}

// Logger is implemented by every logging backend.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	// Fatal logs at FatalLevel, then calls os.Exit(1).
	Fatal(msg string, keysAndValues ...any)
	// With returns a child logger that adds keyValues to every record. The
	// child shares the parent's level.
	With(keyValues ...any) Logger
	Level() Level
	SetLevel(level Level)
}
