package logging

import (
	"fmt"
	"os"
)

// NewDefaultLogger creates a logger with default configuration using zap
func NewDefaultLogger() Logger {
	logger, err := NewZapLogger(LogConfig{Level: ParseLevel(os.Getenv("LOG_LEVEL"))})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize default zap logger: %v", err))
	}
	return logger
}

// NewNopLogger returns a logger that discards everything. Useful in tests and
// as a fallback when components are constructed without a logger.
func NewNopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)        {}
func (nopLogger) Info(string, ...Field)         {}
func (nopLogger) Warn(string, ...Field)         {}
func (nopLogger) Error(string, error, ...Field) {}
func (nopLogger) WithFields(...Field) Logger    { return nopLogger{} }

// MustSync flushes any buffered log entries for zap loggers.
// This should be called before application exit.
func MustSync() {
	if zapLogger, ok := GetGlobalLogger().(*ZapAdapter); ok {
		_ = zapLogger.Sync()
	}
}
