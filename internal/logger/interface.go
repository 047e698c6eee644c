package logger

import "context"

// Logger defines the leveled, printf-style logging used across the service.
// Every method takes the request context so request-scoped fields follow the
// message.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}
