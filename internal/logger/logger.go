package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the leveled, printf-style logging capability injected into
// every component.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Options configures New.
type Options struct {
	Level  zapcore.Level
	Format string // "console" or "json"
	Output string // "stdout", "stderr" or a file path
}

// Zap implements Logger on top of a zap sugared logger.
type Zap struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// New builds a zap-backed logger.
func New(opts Options) (*Zap, error) {
	output := strings.TrimSpace(opts.Output)
	if output == "" {
		output = "stdout"
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		StacktraceKey:  "stacktrace",
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	encoding := strings.ToLower(strings.TrimSpace(opts.Format))
	switch encoding {
	case "", "console":
		encoding = "console"
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "json":
		encoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(opts.Level),
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     true,
		DisableStacktrace: true,
	}

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return FromZap(base), nil
}

// FromZap wraps an existing zap logger.
func FromZap(base *zap.Logger) *Zap {
	if base == nil {
		base = zap.NewNop()
	}
	return &Zap{base: base, sugar: base.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Zap {
	return FromZap(zap.NewNop())
}

// Named returns a child logger with the given name segment.
func (l *Zap) Named(name string) *Zap {
	return FromZap(l.base.Named(name))
}

// With returns a child logger carrying structured key/value pairs.
func (l *Zap) With(keysAndValues ...any) *Zap {
	sugar := l.sugar.With(keysAndValues...)
	return &Zap{base: sugar.Desugar(), sugar: sugar}
}

func (l *Zap) Debug(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *Zap) Info(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *Zap) Warn(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *Zap) Error(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Sync flushes buffered entries.
func (l *Zap) Sync() error {
	return l.base.Sync()
}

// ParseLevel maps a level name to a zap level. "trace" is folded into debug.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	case "panic":
		return zapcore.PanicLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q (valid: trace, debug, info, warn, error, fatal, panic)", s)
	}
}
