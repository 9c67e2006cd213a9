package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger shared by every service mode.
// Key-value pairs follow the zap sugared convention: "key", value, "key", value.
type Logger interface {
	Action(name string) Logger
	With(args ...any) Logger
	WithGroup(name string) Logger

	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)

	Sync() error
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a JSON production logger at the given level (DEBUG, INFO, WARN, ERROR).
func New(level string) (Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	hostname, _ := os.Hostname()
	l, err := cfg.Build(zap.Fields(zap.String("hostname", hostname)))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return Wrap(l), nil
}

// Wrap adapts an existing zap logger.
func Wrap(l *zap.Logger) Logger {
	return &zapLogger{sugar: l.Sugar()}
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return Wrap(zap.NewNop())
}

func (l *zapLogger) Action(name string) Logger {
	return &zapLogger{sugar: l.sugar.With("action", name)}
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{sugar: l.sugar.With(args...)}
}

func (l *zapLogger) WithGroup(name string) Logger {
	return &zapLogger{sugar: l.sugar.With(zap.Namespace(name))}
}

func (l *zapLogger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *zapLogger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *zapLogger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *zapLogger) Error(msg string, err error, args ...any) {
	l.sugar.Errorw(msg, append([]any{zap.Error(err)}, args...)...)
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}
