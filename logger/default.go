package logger

import "sync/atomic"

var defLogger atomic.Value

func init() {
	defLogger.Store(holder{NewSlog(InfoLevel, false)})
}

// holder keeps the stored dynamic type constant for atomic.Value.
type holder struct{ l Logger }

// GetLogger returns the package default logger. Components created without
// WithLogger capture it at construction time.
func GetLogger() Logger {
	h, _ := defLogger.Load().(holder)
	return h.l
}

// SetDefault replaces the package default logger. A nil l is ignored.
func SetDefault(l Logger) {
	if l != nil {
		defLogger.Store(holder{l})
	}
}

// With returns a child of the default logger.
func With(keyValues ...any) Logger {
	return GetLogger().With(keyValues...)
}
