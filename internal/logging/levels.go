package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	// TraceLevel sits below zap's debug level.
	TraceLevel = zapcore.DebugLevel - 1
	// SilentLevel is above every level a logger can emit.
	SilentLevel = zapcore.FatalLevel + 1
)

// ParseLevel maps TRACE, DEBUG, INFO, WARN, ERROR, and SILENT to a threshold.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "INFO":
		return zapcore.InfoLevel, nil
	case "WARN":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	case "SILENT":
		return SilentLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("%w %q", ErrUnsupportedLevel, name)
	}
}

// LevelName returns the upper-case name of a level, including TRACE.
func LevelName(l zapcore.Level) string {
	if l == TraceLevel {
		return "TRACE"
	}
	return l.CapitalString()
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(LevelName(l))
}
