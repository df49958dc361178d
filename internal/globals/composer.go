package globals

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/eugenenazirov/appkernel/internal/config"
	"github.com/eugenenazirov/appkernel/internal/logging"
	"github.com/eugenenazirov/appkernel/internal/registry"
)

// Composer builds Globals from a configuration and the registered
// application factories.
type Composer struct {
	settings  config.Settings
	apps      registry.Registry[Factory]
	overrides Services
	source    config.Source
	logOpts   []logging.Option
	logger    *zap.Logger

	mu      sync.Mutex
	loaders map[string]*config.Loader
}

// Option configures Composer behaviour.
type Option func(*Composer)

// WithRegistry overrides the application factory registry.
func WithRegistry(apps registry.Registry[Factory]) Option {
	return func(c *Composer) {
		c.apps = apps
	}
}

// WithServices sets caller overrides merged over the default node services.
func WithServices(overrides Services) Option {
	return func(c *Composer) {
		c.overrides = overrides
	}
}

// WithSource overrides where config modules are read from.
func WithSource(source config.Source) Option {
	return func(c *Composer) {
		c.source = source
	}
}

// WithLogOptions passes options to every logger built from a configuration.
func WithLogOptions(opts ...logging.Option) Option {
	return func(c *Composer) {
		c.logOpts = append(c.logOpts, opts...)
	}
}

// WithLogger sets the logger used for config resolution diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

// NewComposer constructs a Composer for the given process settings.
func NewComposer(settings config.Settings, opts ...Option) *Composer {
	c := &Composer{
		settings: settings,
		apps:     registry.NewMemory[Factory](),
		source:   config.FileSource{},
		logger:   zap.NewNop(),
		loaders:  make(map[string]*config.Loader),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register binds a globals factory to an application name.
func (c *Composer) Register(app string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("register %q: nil factory", app)
	}
	if err := c.apps.Register(app, factory); err != nil {
		return fmt.Errorf("register %q: %w", app, err)
	}
	return nil
}

// LoadConfig returns the cached configuration of environment, loading it on
// first use. An empty environment means the settings environment.
func (c *Composer) LoadConfig(ctx context.Context, environment string) (*config.Config, error) {
	return c.loader(environment).Load(ctx)
}

// Constants returns the constants of a composition for environment.
func (c *Composer) Constants(environment string) Constants {
	return NewConstants(c.settings.WorkingDirectory, environment)
}

// NodeServices returns the default service surface with caller overrides applied.
func (c *Composer) NodeServices() (Services, error) {
	return MergeServices(DefaultServices(c.settings.WorkingDirectory), c.overrides)
}

// LoadGlobals composes the globals for an environment name or an already
// built configuration (*config.Config, config.Config, or a raw document).
// Applications contribute strictly in declared order; the first failing
// factory aborts the composition.
func (c *Composer) LoadGlobals(ctx context.Context, environmentOrConfig any) (Globals, error) {
	cfg, environment, err := c.resolveConfig(ctx, environmentOrConfig)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	common, err := c.commonContext(cfg, environment)
	if err != nil {
		return nil, err
	}

	acc := map[string]any{}
	for _, app := range cfg.Root.Apps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		contribution, err := c.Contribution(ctx, common, app)
		if err != nil {
			return nil, fmt.Errorf("app %q globals: %w", app.Name, err)
		}
		acc = Merge(acc, contribution)
	}

	for _, key := range commonKeys {
		if _, ok := acc[key]; ok {
			common.Log.Warn("application globals override common context", zap.String("key", key))
		}
	}

	return Merge(common.record(), acc), nil
}

// Contribution invokes the factory registered for app. Applications without
// a factory contribute nothing.
func (c *Composer) Contribution(ctx context.Context, common CommonContext, app config.App) (map[string]any, error) {
	factory, ok := c.apps.Lookup(app.Name)
	if !ok {
		return map[string]any{}, nil
	}

	contribution, err := factory(ctx, common)
	if err != nil {
		return nil, err
	}
	if contribution == nil {
		contribution = map[string]any{}
	}

	if common.Log != nil {
		common.Log.Debug("application globals loaded",
			zap.String("app", app.Name),
			zap.Strings("keys", sortedKeys(contribution)),
		)
	}
	return contribution, nil
}

func (c *Composer) resolveConfig(ctx context.Context, target any) (*config.Config, string, error) {
	if config.IsConfig(target) {
		cfg, err := asConfig(target)
		return cfg, c.settings.Environment, err
	}

	environment, ok := target.(string)
	if !ok {
		return nil, "", fmt.Errorf("%w, got %T", ErrInvalidTarget, target)
	}

	l := c.loader(environment)
	cfg, err := l.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	return cfg, l.Environment(), nil
}

func (c *Composer) loader(environment string) *config.Loader {
	if environment == "" {
		environment = c.settings.Environment
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.loaders[environment]
	if !ok {
		l = config.NewLoader(environment, c.settings.WorkingDirectory,
			config.WithSource(c.source),
			config.WithLogger(c.logger),
		)
		c.loaders[environment] = l
	}
	return l
}

func (c *Composer) commonContext(cfg *config.Config, environment string) (CommonContext, error) {
	logger, err := logging.Configure(cfg, c.logOpts...)
	if err != nil {
		return CommonContext{}, err
	}

	node, err := c.NodeServices()
	if err != nil {
		return CommonContext{}, err
	}

	constants := c.Constants(environment)
	logger.Debug("composing globals",
		zap.String("system", cfg.SystemName),
		zap.String("environment", environment),
		zap.String("instance_id", constants.InstanceID),
	)

	return CommonContext{
		Config:    cfg,
		Log:       logger,
		Node:      node,
		Constants: constants,
	}, nil
}

func asConfig(target any) (*config.Config, error) {
	switch t := target.(type) {
	case *config.Config:
		return t, nil
	case config.Config:
		return &t, nil
	case map[string]any:
		if err := config.ValidateDocument(t); err != nil {
			return nil, err
		}
		return config.DecodeDocument(t)
	default:
		return nil, fmt.Errorf("%w, got %T", ErrInvalidTarget, target)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
