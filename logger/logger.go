// Package logger provides the structured logging surface used across
// the repository.
package logger

type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

type NoopLogger struct{}

func (NoopLogger) Debugw(string, ...any) {}
func (NoopLogger) Infow(string, ...any)  {}
func (NoopLogger) Warnw(string, ...any)  {}
func (NoopLogger) Errorw(string, ...any) {}
