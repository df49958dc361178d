package config

import "errors"

var (
	// ErrInvalidConfig is returned when a configuration is missing a required key or has a mistyped one.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrConfigNotFound is returned when no config file exists for the requested environment.
	ErrConfigNotFound = errors.New("config not found")
	// ErrInvalidModule is returned when a config module is neither a factory nor a value.
	ErrInvalidModule = errors.New("invalid config module")
	// ErrInvalidSettings is returned when process settings cannot be used.
	ErrInvalidSettings = errors.New("invalid settings")
)
