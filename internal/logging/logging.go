// Package logging defines the leveled logger used across tanaline and a
// go-logger backed provider for it.
package logging

import "context"

// Logger is the leveled logging contract. Arguments after msg are key/value
// pairs.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// NoOp returns a logger that discards everything.
func NoOp() Logger {
	return noop{}
}

type noop struct{}

func (noop) Trace(string, ...any)                 {}
func (noop) Debug(string, ...any)                 {}
func (noop) Info(string, ...any)                  {}
func (noop) Warn(string, ...any)                  {}
func (noop) Error(string, ...any)                 {}
func (n noop) WithContext(context.Context) Logger { return n }

// OrNoOp returns l, or a no-op logger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOp()
	}
	return l
}
