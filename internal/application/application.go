package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/eugenenazirov/appkernel/internal/config"
	"github.com/eugenenazirov/appkernel/internal/globals"
	"github.com/eugenenazirov/appkernel/internal/layers"
)

// PackageName prefixes the namespaces handed to applications.
const PackageName = "appkernel"

// App encapsulates the composer and the process settings it runs with.
type App struct {
	settings config.Settings
	composer *globals.Composer
	logger   *zap.Logger
}

// Option configures App behaviour.
type Option func(*options)

type options struct {
	searchParents bool
	composerOpts  []globals.Option
}

// WithParentSearch makes New look for the config file in parent directories
// when the working directory has none.
func WithParentSearch(enabled bool) Option {
	return func(o *options) {
		o.searchParents = enabled
	}
}

// WithComposerOptions passes options through to the globals composer.
func WithComposerOptions(opts ...globals.Option) Option {
	return func(o *options) {
		o.composerOpts = append(o.composerOpts, opts...)
	}
}

// New initializes the application from the provided settings.
func New(settings config.Settings, logger *zap.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.searchParents {
		dir, err := resolveConfigDir(settings.WorkingDirectory, settings.Environment)
		if err != nil {
			return nil, fmt.Errorf("failed to locate config: %w", err)
		}
		if dir != settings.WorkingDirectory {
			logger.Info("using config from parent directory", zap.String("dir", dir))
		}
		settings.WorkingDirectory = dir
	}

	composerOpts := append([]globals.Option{globals.WithLogger(logger)}, o.composerOpts...)
	return &App{
		settings: settings,
		composer: globals.NewComposer(settings, composerOpts...),
		logger:   logger,
	}, nil
}

// Register binds a globals factory to an application name.
func (a *App) Register(app string, factory globals.Factory) error {
	return a.composer.Register(app, factory)
}

// Settings returns the effective process settings.
func (a *App) Settings() config.Settings {
	return a.settings
}

// Compose loads the configuration of the settings environment, checks the
// layer order, and composes the globals.
func (a *App) Compose(ctx context.Context) (globals.Globals, error) {
	cfg, err := a.composer.LoadConfig(ctx, a.settings.Environment)
	if err != nil {
		return nil, err
	}
	resolver, err := Layers(cfg)
	if err != nil {
		return nil, err
	}

	g, err := a.composer.LoadGlobals(ctx, cfg)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	a.logger.Info("globals composed",
		zap.String("system", cfg.SystemName),
		zap.String("namespace", globals.Namespace(PackageName, cfg.SystemName)),
		zap.Strings("apps", cfg.AppNames()),
		zap.Strings("layers", resolver.Layers()),
		zap.Strings("keys", keys),
	)
	return g, nil
}

// Layers builds the layer resolver for cfg. Layer names must be distinct.
func Layers(cfg *config.Config) (*layers.Resolver, error) {
	seen := make(map[string]struct{}, len(cfg.Root.LayerOrder))
	for _, layer := range cfg.Root.LayerOrder {
		if _, ok := seen[layer]; ok {
			return nil, fmt.Errorf("%w: duplicate layer %q", config.ErrInvalidConfig, layer)
		}
		seen[layer] = struct{}{}
	}
	return layers.NewResolver(cfg.Root.LayerOrder), nil
}

// resolveConfigDir locates the directory holding the environment's config file
// by walking up the directory tree from start.
func resolveConfigDir(start, environment string) (string, error) {
	dir := start
	for {
		for _, ext := range config.Extensions {
			candidate := filepath.Join(dir, fmt.Sprintf("config.%s.%s", environment, ext))
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: no config found for environment %q above %s", config.ErrConfigNotFound, environment, start)
}
