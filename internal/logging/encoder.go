package logging

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Supported log formats.
const (
	FormatJSON   = "json"
	FormatSimple = "simple"
	FormatFull   = "full"
)

// isoLayout is ISO-8601 in UTC with millisecond precision.
const isoLayout = "2006-01-02T15:04:05.000Z"

var bufferPool = buffer.NewPool()

func formatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(formatTime(t))
}

func newEncoder(format string) (zapcore.Encoder, error) {
	switch format {
	case FormatJSON:
		return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "datetime",
			MessageKey:     "message",
			NameKey:        "loggerName",
			LevelKey:       "logLevel",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeTime:     encodeTime,
			EncodeLevel:    encodeLevel,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		}), nil
	case FormatSimple:
		return newLineEncoder(renderSimple), nil
	case FormatFull:
		return newLineEncoder(renderFull), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}

// renderSimple writes "<datetime>: <message>".
func renderSimple(buf *buffer.Buffer, ent zapcore.Entry) {
	buf.AppendString(formatTime(ent.Time))
	buf.AppendString(": ")
	buf.AppendString(ent.Message)
}

// renderFull writes "<datetime> <LEVEL> [<loggerName>] <message>".
func renderFull(buf *buffer.Buffer, ent zapcore.Entry) {
	buf.AppendString(formatTime(ent.Time))
	buf.AppendByte(' ')
	buf.AppendString(LevelName(ent.Level))
	buf.AppendString(" [")
	buf.AppendString(ent.LoggerName)
	buf.AppendString("] ")
	buf.AppendString(ent.Message)
}

// lineEncoder renders a fixed line layout and appends structured fields, if
// any, as a JSON object.
type lineEncoder struct {
	*zapcore.MapObjectEncoder
	render func(*buffer.Buffer, zapcore.Entry)
}

func newLineEncoder(render func(*buffer.Buffer, zapcore.Entry)) *lineEncoder {
	return &lineEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		render:           render,
	}
}

func (e *lineEncoder) Clone() zapcore.Encoder {
	clone := newLineEncoder(e.render)
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (e *lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := bufferPool.Get()
	e.render(buf, ent)

	all := e.Fields
	if len(fields) > 0 {
		merged := zapcore.NewMapObjectEncoder()
		for k, v := range e.Fields {
			merged.Fields[k] = v
		}
		for _, f := range fields {
			f.AddTo(merged)
		}
		all = merged.Fields
	}

	if len(all) > 0 {
		buf.AppendByte(' ')
		data, err := json.Marshal(all)
		if err != nil {
			buf.AppendString(fmt.Sprint(all))
		} else {
			_, _ = buf.Write(data)
		}
	}

	buf.AppendString(zapcore.DefaultLineEnding)
	return buf, nil
}
