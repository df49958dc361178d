package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Extensions lists config file extensions in lookup priority order.
var Extensions = []string{"yaml", "json"}

// Loader resolves, loads, and validates the configuration of one environment.
// The work happens at most once; every caller of Load observes the same
// outcome.
type Loader struct {
	environment      string
	workingDirectory string
	source           Source
	logger           *zap.Logger

	once sync.Once
	cfg  *Config
	err  error
}

// LoaderOption configures Loader behaviour.
type LoaderOption func(*Loader)

// WithSource overrides where modules are read from, primarily for tests and
// factory modules registered in code.
func WithSource(source Source) LoaderOption {
	return func(l *Loader) {
		l.source = source
	}
}

// WithLogger sets the logger used to report resolution.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader constructs a Loader looking for config files of environment under
// workingDirectory.
func NewLoader(environment, workingDirectory string, opts ...LoaderOption) *Loader {
	l := &Loader{
		environment:      environment,
		workingDirectory: workingDirectory,
		source:           FileSource{},
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Environment returns the environment this loader resolves.
func (l *Loader) Environment() string {
	return l.environment
}

// Load returns the cached configuration, resolving it on first use. The
// outcome, failures included, is kept for the life of the loader. Factory
// modules get the first caller's context values without its cancellation, so
// a caller giving up early does not poison the cell for everyone else.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	l.once.Do(func() {
		l.cfg, l.err = l.load(context.WithoutCancel(ctx))
	})
	return l.cfg, l.err
}

// Resolve returns the path of the first existing candidate config file.
func (l *Loader) Resolve() (string, error) {
	for _, ext := range Extensions {
		candidate := filepath.Join(l.workingDirectory, fmt.Sprintf("config.%s.%s", l.environment, ext))
		if l.source.Exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no config found for environment %q in %s", ErrConfigNotFound, l.environment, l.workingDirectory)
}

func (l *Loader) load(ctx context.Context) (*Config, error) {
	path, err := l.Resolve()
	if err != nil {
		return nil, err
	}

	mod, err := l.source.ReadModule(path)
	if err != nil {
		return nil, fmt.Errorf("load config module: %w", err)
	}
	l.logger.Debug("config module resolved",
		zap.String("path", path),
		zap.Stringer("kind", mod.Kind()),
	)

	cfg, err := mod.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	l.logger.Debug("config loaded",
		zap.String("environment", cfg.Environment),
		zap.String("system", cfg.SystemName),
		zap.Int("apps", len(cfg.Root.Apps)),
	)
	return cfg, nil
}
