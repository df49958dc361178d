package globals

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eugenenazirov/appkernel/internal/config"
)

// Keys of the common context inside a composed Globals record.
const (
	KeyConfig    = "config"
	KeyLog       = "log"
	KeyNode      = "node"
	KeyConstants = "constants"
)

var commonKeys = []string{KeyConfig, KeyLog, KeyNode, KeyConstants}

// Keys of the service surface inside the node entry. Any other key of the
// entry belongs to Services.Extra.
const (
	nodeFS     = "fs"
	nodeGetenv = "getenv"
	nodeNow    = "now"
)

// Factory produces an application's contribution to the globals.
type Factory func(ctx context.Context, common CommonContext) (map[string]any, error)

// Services is the minimal service surface handed to applications.
type Services struct {
	FS     fs.FS
	Getenv func(string) string
	Now    func() time.Time
	Extra  map[string]any
}

// Constants are process facts fixed for one composition.
type Constants struct {
	WorkingDirectory string
	Environment      string
	InstanceID       string
}

// CommonContext is the application-independent part of the globals.
type CommonContext struct {
	Config    *config.Config
	Log       *zap.Logger
	Node      Services
	Constants Constants
}

// record renders the common context as a globals record. Node and constants
// are nested records so application contributions merge into them leaf by leaf.
func (c CommonContext) record() map[string]any {
	return map[string]any{
		KeyConfig:    c.Config,
		KeyLog:       c.Log,
		KeyNode:      c.Node.record(),
		KeyConstants: c.Constants.record(),
	}
}

func (s Services) record() map[string]any {
	out := make(map[string]any, len(s.Extra)+3)
	for k, v := range s.Extra {
		out[k] = v
	}
	out[nodeFS] = s.FS
	out[nodeGetenv] = s.Getenv
	out[nodeNow] = s.Now
	return out
}

func servicesFromRecord(m map[string]any) (Services, bool) {
	svc := Services{Extra: map[string]any{}}
	for k, v := range m {
		var ok bool
		switch k {
		case nodeFS:
			svc.FS, ok = v.(fs.FS)
		case nodeGetenv:
			svc.Getenv, ok = v.(func(string) string)
		case nodeNow:
			svc.Now, ok = v.(func() time.Time)
		default:
			svc.Extra[k], ok = v, true
		}
		if !ok {
			return Services{}, false
		}
	}
	return svc, true
}

func (c Constants) record() map[string]any {
	return map[string]any{
		"workingDirectory": c.WorkingDirectory,
		"environment":      c.Environment,
		"instanceID":       c.InstanceID,
	}
}

// DefaultServices returns the service surface rooted at workingDirectory.
func DefaultServices(workingDirectory string) Services {
	return Services{
		FS:     os.DirFS(workingDirectory),
		Getenv: os.Getenv,
		Now:    time.Now,
		Extra:  map[string]any{},
	}
}

// MergeServices returns base with every non-zero field of overrides applied.
// Extra entries merge key by key.
func MergeServices(base, overrides Services) (Services, error) {
	extra := make(map[string]any, len(base.Extra))
	for k, v := range base.Extra {
		extra[k] = v
	}
	base.Extra = extra

	if err := mergo.Merge(&base, overrides, mergo.WithOverride); err != nil {
		return Services{}, fmt.Errorf("merge node services: %w", err)
	}
	return base, nil
}

// NewConstants returns constants for one composition with a fresh instance ID.
func NewConstants(workingDirectory, environment string) Constants {
	return Constants{
		WorkingDirectory: workingDirectory,
		Environment:      environment,
		InstanceID:       uuid.NewString(),
	}
}

// Globals is the composed record: the common context plus every application
// contribution.
type Globals map[string]any

// Config returns the configuration entry.
func (g Globals) Config() (*config.Config, bool) {
	cfg, ok := g[KeyConfig].(*config.Config)
	return cfg, ok
}

// Log returns the logger entry.
func (g Globals) Log() (*zap.Logger, bool) {
	logger, ok := g[KeyLog].(*zap.Logger)
	return logger, ok
}

// Node returns the service surface entry. Keys applications added to the
// entry show up in Services.Extra.
func (g Globals) Node() (Services, bool) {
	switch v := g[KeyNode].(type) {
	case Services:
		return v, true
	case map[string]any:
		return servicesFromRecord(v)
	default:
		return Services{}, false
	}
}

// Constants returns the constants entry. Keys applications added to the
// entry stay reachable through the raw record only.
func (g Globals) Constants() (Constants, bool) {
	switch v := g[KeyConstants].(type) {
	case Constants:
		return v, true
	case map[string]any:
		var c Constants
		if err := mergo.Map(&c, v); err != nil {
			return Constants{}, false
		}
		return c, true
	default:
		return Constants{}, false
	}
}
