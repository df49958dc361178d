package globals

import "errors"

var (
	// ErrInvalidTarget is returned when LoadGlobals receives neither an environment name nor a configuration.
	ErrInvalidTarget = errors.New("expected an environment name or a configuration")
)
