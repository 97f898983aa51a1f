package logger

import "sync"

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetGlobalLogger replaces the process logger. Loggers already returned by
// Get keep writing through the previous one.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the process logger. Until Init or SetGlobalLogger
// runs it is a console logger at info level.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewDefault("isoclient")
	}
	return globalLogger
}

// Get returns the global logger tagged with component=name.
func Get(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

// Debug logs through the global logger.
func Debug(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Debug(msg, fields...)
}
