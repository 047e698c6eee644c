package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures where and how log lines are written.
type Options struct {
	Level  string
	Format string // "text" or "json"

	// File, when set, receives a copy of every line and is rotated at
	// MaxSizeMB keeping MaxBackups old files.
	File       string
	MaxSizeMB  int
	MaxBackups int

	// Console overrides the console destination (stdout when nil). Colors
	// are only used on a terminal stdout.
	Console io.Writer
}

type implLogger struct {
	logger zerolog.Logger
	closer io.Closer
}

type ctxKey struct{}

// New creates a Logger writing at the given level to stdout.
func New(level string) Logger {
	return NewWithOptions(Options{Level: level})
}

// NewWithOptions creates a Logger writing to the console and, optionally, a
// rotating log file.
func NewWithOptions(opts Options) Logger {
	console := opts.Console
	color := false
	if console == nil {
		console = os.Stdout
		color = isatty.IsTerminal(os.Stdout.Fd())
	}
	if strings.ToLower(opts.Format) != "json" {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: "2006-01-02 15:04:05", NoColor: !color}
	}

	writers := []io.Writer{console}
	var closer io.Closer
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		writers = append(writers, file)
		closer = file
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLevel(opts.Level)).
		With().Timestamp().Logger()

	return &implLogger{logger: zl, closer: closer}
}

// Close releases the log file, if any. Loggers without a file are a no-op.
func Close(l Logger) error {
	if impl, ok := l.(*implLogger); ok && impl.closer != nil {
		return impl.closer.Close()
	}
	return nil
}

// WithRequestID returns a context whose log lines carry the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *implLogger) shouldLog(level zerolog.Level) bool {
	return level >= l.logger.GetLevel()
}

func (l *implLogger) log(ctx context.Context, level zerolog.Level, msg string, args []interface{}) {
	if !l.shouldLog(level) {
		return
	}
	event := l.logger.WithLevel(level)
	if id := RequestID(ctx); id != "" {
		event = event.Str("request_id", id)
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	event.Msg(msg)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, zerolog.DebugLevel, msg, args)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, zerolog.InfoLevel, msg, args)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, zerolog.WarnLevel, msg, args)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, zerolog.ErrorLevel, msg, args)
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() Logger {
	return &implLogger{logger: zerolog.Nop()}
}
