package config

import "fmt"

// ValidateDocument checks the shape of a raw decoded configuration document.
// Checks run in a fixed order and the first violation is returned; the error
// names the offending key path and wraps ErrInvalidConfig.
func ValidateDocument(doc map[string]any) error {
	if _, ok := doc["environment"]; !ok {
		return missingKey("environment")
	}
	if _, ok := doc["systemName"]; !ok {
		return missingKey("systemName")
	}

	// A missing or non-object root behaves like an empty one.
	root, _ := doc[RootKey].(map[string]any)

	apps, ok := root["apps"]
	if !ok {
		return missingKey(RootKey + ".apps")
	}
	appList, ok := apps.([]any)
	if !ok {
		return notArray(RootKey + ".apps")
	}

	layerOrder, ok := root["layerOrder"]
	if !ok {
		return missingKey(RootKey + ".layerOrder")
	}
	if _, ok := layerOrder.([]any); !ok {
		return notArray(RootKey + ".layerOrder")
	}

	for i, app := range appList {
		fields, _ := app.(map[string]any)
		if name, _ := fields["name"].(string); name == "" {
			return missingAppName(i)
		}
	}

	if _, ok := root["logLevel"].(string); !ok {
		return notString(RootKey + ".logLevel")
	}
	if _, ok := root["logFormat"].(string); !ok {
		return notString(RootKey + ".logFormat")
	}
	return nil
}

// Validate runs the document checks against a typed configuration. Array and
// string types are enforced by Config itself, so "present" means non-nil for
// slices and non-empty for strings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if cfg.Environment == "" {
		return missingKey("environment")
	}
	if cfg.SystemName == "" {
		return missingKey("systemName")
	}
	if cfg.Root.Apps == nil {
		return missingKey(RootKey + ".apps")
	}
	if cfg.Root.LayerOrder == nil {
		return missingKey(RootKey + ".layerOrder")
	}
	for i, app := range cfg.Root.Apps {
		if app.Name == "" {
			return missingAppName(i)
		}
	}
	if cfg.Root.LogLevel == "" {
		return emptyString(RootKey + ".logLevel")
	}
	if cfg.Root.LogFormat == "" {
		return emptyString(RootKey + ".logFormat")
	}
	return nil
}

// IsConfig reports whether v structurally looks like a configuration, that is
// it carries a root layerOrder. Strings are never configurations.
func IsConfig(v any) bool {
	switch c := v.(type) {
	case *Config:
		return c != nil && c.Root.LayerOrder != nil
	case Config:
		return c.Root.LayerOrder != nil
	case map[string]any:
		root, _ := c[RootKey].(map[string]any)
		_, ok := root["layerOrder"]
		return ok
	default:
		return false
	}
}

func missingKey(path string) error {
	return fmt.Errorf("%w: missing required key %q", ErrInvalidConfig, path)
}

func notArray(path string) error {
	return fmt.Errorf("%w: %q must be an array", ErrInvalidConfig, path)
}

func notString(path string) error {
	return fmt.Errorf("%w: %q must be a string", ErrInvalidConfig, path)
}

func emptyString(path string) error {
	return fmt.Errorf("%w: %q must be a non-empty string", ErrInvalidConfig, path)
}

func missingAppName(index int) error {
	return fmt.Errorf("%w: app at %s.apps[%d] has no name", ErrInvalidConfig, RootKey, index)
}
