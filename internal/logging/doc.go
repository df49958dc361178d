// Package logging builds leveled zap loggers rendering one of three line
// formats (json, simple, full). Every call returns a new logger; nothing is
// installed globally.
package logging
