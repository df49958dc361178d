package logging

import "errors"

var (
	// ErrUnsupportedFormat is returned for a log format other than json, simple, or full.
	ErrUnsupportedFormat = errors.New("unsupported log format")
	// ErrUnsupportedLevel is returned for an unknown log level name.
	ErrUnsupportedLevel = errors.New("unsupported log level")
)
