package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap/zaptest"
)

const yamlConfig = `environment: test
systemName: demo
root:
  apps:
    - name: users
    - name: billing
      options:
        currency: EUR
  layerOrder: [model, service, api]
  logLevel: DEBUG
  logFormat: simple
  region: eu-west-1
`

const jsonConfig = `{
  "environment": "test",
  "systemName": "from-json",
  "root": {
    "apps": [{"name": "users"}],
    "layerOrder": ["model"],
    "logLevel": "INFO",
    "logFormat": "json"
  }
}`

type countingSource struct {
	modules Modules
	exists  atomic.Int32
	reads   atomic.Int32
}

func (s *countingSource) Exists(path string) bool {
	s.exists.Add(1)
	return s.modules.Exists(path)
}

func (s *countingSource) ReadModule(path string) (Module, error) {
	s.reads.Add(1)
	return s.modules.ReadModule(path)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoaderReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.test.yaml", yamlConfig)

	cfg, err := NewLoader("test", dir, WithLogger(zaptest.NewLogger(t))).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.SystemName != "demo" || cfg.Root.LogFormat != "simple" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if got := strings.Join(cfg.AppNames(), ","); got != "users,billing" {
		t.Fatalf("unexpected apps: %s", got)
	}
	if cfg.Root.Apps[1].Options["currency"] != "EUR" {
		t.Fatalf("expected app options to be decoded, got %v", cfg.Root.Apps[1].Options)
	}
	if cfg.Root.Extra["region"] != "eu-west-1" {
		t.Fatalf("expected unknown root keys to be kept, got %v", cfg.Root.Extra)
	}
}

func TestLoaderPrefersYAMLOverJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.test.json", jsonConfig)

	cfg, err := NewLoader("test", dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SystemName != "from-json" {
		t.Fatalf("expected JSON config, got %s", cfg.SystemName)
	}

	writeFile(t, dir, "config.test.yaml", yamlConfig)
	cfg, err = NewLoader("test", dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SystemName != "demo" {
		t.Fatalf("expected YAML config to win, got %s", cfg.SystemName)
	}
}

func TestLoaderMissingConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.other.yaml", yamlConfig)

	_, err := NewLoader("test", dir).Load(context.Background())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), `"test"`) {
		t.Fatalf("expected environment in error, got %q", err.Error())
	}
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.test.yaml", "environment: test\nroot:\n  apps: []\n")

	_, err := NewLoader("test", dir).Load(context.Background())
	if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), "systemName") {
		t.Fatalf("expected systemName validation error, got %v", err)
	}
}

func TestLoaderDoesNotChangeWorkingDirectory(t *testing.T) {
	before, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}

	dir := t.TempDir()
	writeFile(t, dir, "config.test.yaml", yamlConfig)
	if _, err := NewLoader("test", dir).Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	after, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if before != after {
		t.Fatalf("working directory changed from %s to %s", before, after)
	}
}

func TestLoaderFactoryModule(t *testing.T) {
	path := filepath.Join("/srv", "config.test.yaml")
	source := &countingSource{modules: Modules{
		path: FactoryModule(func(ctx context.Context) (*Config, error) {
			return validConfig(), nil
		}),
	}}

	cfg, err := NewLoader("test", "/srv", WithSource(source)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SystemName != "demo" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoaderValidatesFactoryResult(t *testing.T) {
	path := filepath.Join("/srv", "config.test.json")
	source := Modules{
		path: FactoryModule(func(ctx context.Context) (*Config, error) {
			cfg := validConfig()
			cfg.Root.LayerOrder = nil
			return cfg, nil
		}),
	}

	_, err := NewLoader("test", "/srv", WithSource(source)).Load(context.Background())
	if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), "layerOrder") {
		t.Fatalf("expected layerOrder validation error, got %v", err)
	}
}

func TestLoaderMemoizesResult(t *testing.T) {
	var calls atomic.Int32
	path := filepath.Join("/srv", "config.test.yaml")
	source := &countingSource{modules: Modules{
		path: FactoryModule(func(ctx context.Context) (*Config, error) {
			calls.Add(1)
			return validConfig(), nil
		}),
	}}
	loader := NewLoader("test", "/srv", WithSource(source))

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical cached config")
	}
	if calls.Load() != 1 || source.reads.Load() != 1 || source.exists.Load() != 1 {
		t.Fatalf("expected one resolution, got calls=%d reads=%d exists=%d",
			calls.Load(), source.reads.Load(), source.exists.Load())
	}
}

func TestLoaderConcurrentFirstAccess(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	path := filepath.Join("/srv", "config.test.yaml")
	source := &countingSource{modules: Modules{
		path: FactoryModule(func(ctx context.Context) (*Config, error) {
			calls.Add(1)
			<-release
			return validConfig(), nil
		}),
	}}
	loader := NewLoader("test", "/srv", WithSource(source))

	const callers = 16
	results := make([]*Config, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			cfg, err := loader.Load(context.Background())
			if err != nil {
				t.Errorf("Load failed: %v", err)
			}
			results[idx] = cfg
		}(i)
	}
	close(release)
	wg.Wait()

	for i, cfg := range results {
		if cfg != results[0] {
			t.Fatalf("caller %d observed a different config", i)
		}
	}
	if calls.Load() != 1 || source.reads.Load() != 1 {
		t.Fatalf("expected a single resolution, got calls=%d reads=%d", calls.Load(), source.reads.Load())
	}
}

func TestLoaderCachesFailure(t *testing.T) {
	source := &countingSource{modules: Modules{}}
	loader := NewLoader("test", "/srv", WithSource(source))

	_, first := loader.Load(context.Background())
	_, second := loader.Load(context.Background())
	if !errors.Is(first, ErrConfigNotFound) || first != second {
		t.Fatalf("expected the same cached error, got %v and %v", first, second)
	}
	if got := source.exists.Load(); got != int32(len(Extensions)) {
		t.Fatalf("expected %d lookups, got %d", len(Extensions), got)
	}
}

func TestLoaderIgnoresFirstCallerCancellation(t *testing.T) {
	path := filepath.Join("/srv", "config.test.yaml")
	source := &countingSource{modules: Modules{
		path: FactoryModule(func(ctx context.Context) (*Config, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return validConfig(), nil
		}),
	}}
	loader := NewLoader("test", "/srv", WithSource(source))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loader.Load(ctx); err != nil {
		t.Fatalf("expected cancellation to be detached, got %v", err)
	}
	cfg, err := loader.Load(context.Background())
	if err != nil || cfg.SystemName != "demo" {
		t.Fatalf("expected cached config, got %+v, %v", cfg, err)
	}
}

func TestLoaderEnvironment(t *testing.T) {
	if got := NewLoader("staging", "/srv").Environment(); got != "staging" {
		t.Fatalf("expected staging, got %q", got)
	}
}

func TestModuleKinds(t *testing.T) {
	if FactoryModule(nil).Kind().String() != "factory" || ValueModule(nil).Kind().String() != "value" {
		t.Fatalf("unexpected module kind names")
	}
	if _, err := (Module{}).Resolve(context.Background()); !errors.Is(err, ErrInvalidModule) {
		t.Fatalf("expected ErrInvalidModule for zero module, got %v", err)
	}
	if _, err := FactoryModule(nil).Resolve(context.Background()); !errors.Is(err, ErrInvalidModule) {
		t.Fatalf("expected ErrInvalidModule for nil factory, got %v", err)
	}
}

func TestDecodeDocument(t *testing.T) {
	cfg, err := DecodeDocument(validDocument())
	if err != nil {
		t.Fatalf("DecodeDocument returned error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("decoded config is invalid: %v", err)
	}
	if got := strings.Join(cfg.Root.LayerOrder, ","); got != "model,service,api" {
		t.Fatalf("unexpected layer order: %s", got)
	}
}
