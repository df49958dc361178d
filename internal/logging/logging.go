package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/appkernel/internal/config"
)

// Option configures logger construction.
type Option func(*options)

type options struct {
	output zapcore.WriteSyncer
	clock  zapcore.Clock
}

// WithOutput overrides the destination of log lines (stderr by default).
func WithOutput(ws zapcore.WriteSyncer) Option {
	return func(o *options) {
		o.output = ws
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock zapcore.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// New creates a logger with the given threshold and line format.
func New(level, format string, opts ...Option) (*zap.Logger, error) {
	o := options{output: zapcore.Lock(os.Stderr)}
	for _, opt := range opts {
		opt(&o)
	}

	threshold, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	encoder, err := newEncoder(format)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, o.output, zap.NewAtomicLevelAt(threshold))
	zapOpts := []zap.Option{zap.ErrorOutput(o.output)}
	if o.clock != nil {
		zapOpts = append(zapOpts, zap.WithClock(o.clock))
	}
	return zap.New(core, zapOpts...), nil
}

// Configure creates a logger from the root logLevel and logFormat of cfg.
func Configure(cfg *config.Config, opts ...Option) (*zap.Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configure logging: %w", config.ErrInvalidConfig)
	}
	logger, err := New(cfg.Root.LogLevel, cfg.Root.LogFormat, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return logger, nil
}

// Trace logs msg below debug level.
func Trace(logger *zap.Logger, msg string, fields ...zap.Field) {
	logger.Log(TraceLevel, msg, fields...)
}
