// Package utils provides common utilities shared across packages
package utils

// Logger defines a common logging interface used throughout the application
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// NoopLogger is a logger implementation that does nothing
type NoopLogger struct{}

func (l NoopLogger) Debug(format string, args ...interface{}) {}
func (l NoopLogger) Info(format string, args ...interface{})  {}
func (l NoopLogger) Warn(format string, args ...interface{})  {}
func (l NoopLogger) Error(format string, args ...interface{}) {}

// prefixLogger tags every message with a fixed prefix
type prefixLogger struct {
	prefix string
	next   Logger
}

// WithPrefix returns a Logger that prepends "[prefix] " to every message.
// A nil logger yields a NoopLogger.
func WithPrefix(logger Logger, prefix string) Logger {
	if logger == nil {
		return NoopLogger{}
	}
	if prefix == "" {
		return logger
	}
	return &prefixLogger{prefix: "[" + prefix + "] ", next: logger}
}

func (l *prefixLogger) Debug(format string, args ...interface{}) {
	l.next.Debug(l.prefix+format, args...)
}

func (l *prefixLogger) Info(format string, args ...interface{}) {
	l.next.Info(l.prefix+format, args...)
}

func (l *prefixLogger) Warn(format string, args ...interface{}) {
	l.next.Warn(l.prefix+format, args...)
}

func (l *prefixLogger) Error(format string, args ...interface{}) {
	l.next.Error(l.prefix+format, args...)
}
