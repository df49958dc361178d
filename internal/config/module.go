package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModuleKind tags the shape of a loaded config module.
type ModuleKind int

const (
	// FactoryKind modules produce their Config by calling a function.
	FactoryKind ModuleKind = iota + 1
	// ValueKind modules carry the configuration document directly.
	ValueKind
)

// String returns the string representation of ModuleKind
func (k ModuleKind) String() string {
	switch k {
	case FactoryKind:
		return "factory"
	case ValueKind:
		return "value"
	default:
		return "unknown"
	}
}

// Factory builds a configuration on demand.
type Factory func(ctx context.Context) (*Config, error)

// Module is a loaded config module: either a Factory or a raw document.
type Module struct {
	kind     ModuleKind
	factory  Factory
	document map[string]any
}

// FactoryModule wraps a factory.
func FactoryModule(f Factory) Module {
	return Module{kind: FactoryKind, factory: f}
}

// ValueModule wraps a decoded configuration document.
func ValueModule(doc map[string]any) Module {
	return Module{kind: ValueKind, document: doc}
}

// Kind reports which shape the module has.
func (m Module) Kind() ModuleKind {
	return m.kind
}

// Resolve produces the Config held by the module. Value documents are
// shape-checked with ValidateDocument before being decoded.
func (m Module) Resolve(ctx context.Context) (*Config, error) {
	switch m.kind {
	case FactoryKind:
		if m.factory == nil {
			return nil, fmt.Errorf("%w: nil factory", ErrInvalidModule)
		}
		cfg, err := m.factory(ctx)
		if err != nil {
			return nil, fmt.Errorf("config factory: %w", err)
		}
		return cfg, nil
	case ValueKind:
		if err := ValidateDocument(m.document); err != nil {
			return nil, err
		}
		return DecodeDocument(m.document)
	default:
		return nil, ErrInvalidModule
	}
}

// DecodeDocument converts a raw document into a typed Config.
func DecodeDocument(doc map[string]any) (*Config, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Source is where config modules are looked up and read from.
type Source interface {
	Exists(path string) bool
	ReadModule(path string) (Module, error)
}

// FileSource reads YAML or JSON files from the local filesystem.
type FileSource struct{}

// Exists reports whether path names a regular file.
func (FileSource) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ReadModule decodes the file at path into a value module. JSON is parsed by
// the YAML decoder.
func (FileSource) ReadModule(path string) (Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Module{}, fmt.Errorf("read file: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Module{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return ValueModule(doc), nil
}

// Modules is an in-memory Source keyed by path, used to register factory
// modules from Go code.
type Modules map[string]Module

// Exists reports whether a module is registered under path.
func (m Modules) Exists(path string) bool {
	_, ok := m[path]
	return ok
}

// ReadModule returns the module registered under path.
func (m Modules) ReadModule(path string) (Module, error) {
	mod, ok := m[path]
	if !ok {
		return Module{}, fmt.Errorf("read module %s: %w", path, os.ErrNotExist)
	}
	return mod, nil
}
