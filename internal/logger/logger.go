// Package logger wraps zap for the host-side tools: a global sugared
// logger with a console encoder, level parsing, context helpers and a bridge
// that routes core debug output into zap.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stopwatch/core"
)

var (
	global       *zap.SugaredLogger
	defaultLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() {
	SetLogger(New(defaultLevel, os.Stderr))
}

type loggerKey struct{}

// New creates a console logger writing to w. A nil level uses the shared
// default level, so SetLevel affects it.
func New(level zapcore.LevelEnabler, w io.Writer, options ...zap.Option) *zap.SugaredLogger {
	if level == nil {
		level = defaultLevel
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		MessageKey:       "message",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level), options...).Sugar()
}

// ParseLogLevel converts string input to zap log level.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	case "fatal":
		return zapcore.FatalLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Level returns the current level of the shared default level.
func Level() zapcore.Level {
	return defaultLevel.Level()
}

// SetLevel changes the shared default level.
func SetLevel(level zapcore.Level) {
	defaultLevel.SetLevel(level)
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	return global
}

// SetLogger replaces the global logger. Not safe for concurrent use.
func SetLogger(l *zap.SugaredLogger) {
	global = l
}

// ToContext stores l in ctx.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored in ctx, or the global one.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
			return l
		}
	}
	return global
}

// WithName returns ctx carrying a named child of its logger.
func WithName(ctx context.Context, name string) context.Context {
	return ToContext(ctx, FromContext(ctx).Named(name))
}

// Debugf writes a formatted debug message using the logger from the context.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debugf(format, args...)
}

// Infof writes a formatted info message using the logger from the context.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Infof(format, args...)
}

// InfoKV writes a message and key-value pairs at info level.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Infow(message, kvs...)
}

// Warnf writes a formatted warning using the logger from the context.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warnf(format, args...)
}

// CoreWriter adapts l to the core debug writer. Core messages carry a
// "[TAG] " prefix which becomes the logger name.
func CoreWriter(l *zap.SugaredLogger) core.DebugWriter {
	return func(msg string) {
		name := "core"
		if strings.HasPrefix(msg, "[") {
			if end := strings.IndexByte(msg, ']'); end > 1 {
				name = strings.ToLower(msg[1:end])
				msg = strings.TrimSpace(msg[end+1:])
			}
		}
		l.Named(name).Debug(msg)
	}
}
