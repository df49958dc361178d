package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	defaultEnvironment = "development"
	defaultLogLevel    = "INFO"
	defaultLogFormat   = "full"
)

// Settings aggregates process-level settings resolved from multiple sources.
// Precedence: CLI flags > Environment variables > Defaults
type Settings struct {
	Environment      string
	WorkingDirectory string
	// LogLevel and LogFormat drive the bootstrap logger used before a config is loaded.
	LogLevel  string
	LogFormat string
}

// envSettings mirrors Settings for environment variable parsing.
type envSettings struct {
	Environment      string `env:"APP_ENV"`
	WorkingDirectory string `env:"APP_WORKDIR"`
	LogLevel         string `env:"APP_LOG_LEVEL"`
	LogFormat        string `env:"APP_LOG_FORMAT"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	Environment      *string
	WorkingDirectory *string
	LogLevel         *string
	LogFormat        *string
}

// LoadSettings extracts process settings from multiple sources with precedence:
// CLI flags > Environment variables > Defaults
func LoadSettings(overrides *CLIOverrides) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	// Apply environment variables (override defaults)
	if err := applyEnvSettings(&settings); err != nil {
		return Settings{}, err
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&settings, overrides)
	}

	abs, err := filepath.Abs(settings.WorkingDirectory)
	if err != nil {
		return Settings{}, fmt.Errorf("resolve working directory: %w", err)
	}
	settings.WorkingDirectory = abs

	if err := validateSettings(settings); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// defaultSettings returns Settings with default values.
func defaultSettings() (Settings, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Settings{}, fmt.Errorf("get working directory: %w", err)
	}
	return Settings{
		Environment:      defaultEnvironment,
		WorkingDirectory: wd,
		LogLevel:         defaultLogLevel,
		LogFormat:        defaultLogFormat,
	}, nil
}

// applyEnvSettings applies environment variable configuration.
func applyEnvSettings(settings *Settings) error {
	var fromEnv envSettings
	if err := env.Parse(&fromEnv); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if v := strings.TrimSpace(fromEnv.Environment); v != "" {
		settings.Environment = v
	}
	if v := strings.TrimSpace(fromEnv.WorkingDirectory); v != "" {
		settings.WorkingDirectory = v
	}
	if v := strings.TrimSpace(fromEnv.LogLevel); v != "" {
		settings.LogLevel = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(fromEnv.LogFormat); v != "" {
		settings.LogFormat = strings.ToLower(v)
	}
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(settings *Settings, overrides *CLIOverrides) {
	if overrides.Environment != nil && *overrides.Environment != "" {
		settings.Environment = *overrides.Environment
	}
	if overrides.WorkingDirectory != nil && *overrides.WorkingDirectory != "" {
		settings.WorkingDirectory = *overrides.WorkingDirectory
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		settings.LogLevel = strings.ToUpper(*overrides.LogLevel)
	}
	if overrides.LogFormat != nil && *overrides.LogFormat != "" {
		settings.LogFormat = strings.ToLower(*overrides.LogFormat)
	}
}

// validateSettings validates the final settings.
func validateSettings(settings Settings) error {
	if settings.Environment == "" {
		return fmt.Errorf("%w: environment cannot be empty", ErrInvalidSettings)
	}
	if strings.ContainsAny(settings.Environment, `/\`) {
		return fmt.Errorf("%w: environment %q must not contain path separators", ErrInvalidSettings, settings.Environment)
	}
	info, err := os.Stat(settings.WorkingDirectory)
	if err != nil {
		return fmt.Errorf("%w: working directory: %w", ErrInvalidSettings, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: working directory %s is not a directory", ErrInvalidSettings, settings.WorkingDirectory)
	}
	return nil
}
