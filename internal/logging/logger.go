// Package logging defines the structured logging surface shared by the CLI,
// the server, and the calibration tooling. Production code logs through the
// zerolog backend; a std log adapter exists for tests and for callers that
// already hold a *log.Logger.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"

	"github.com/rs/zerolog"
)

// Field is one structured key-value attribute attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// apply writes the field onto a zerolog event using the typed setter
// matching its value.
func (f Field) apply(e *zerolog.Event) *zerolog.Event {
	switch v := f.Value.(type) {
	case string:
		return e.Str(f.Key, v)
	case int:
		return e.Int(f.Key, v)
	case int64:
		return e.Int64(f.Key, v)
	case uint64:
		return e.Uint64(f.Key, v)
	case float64:
		return e.Float64(f.Key, v)
	case bool:
		return e.Bool(f.Key, v)
	case error:
		return e.Err(v)
	}
	return e.Interface(f.Key, f.Value)
}

// String builds a string-valued field.
func String(key, value string) Field { return Field{key, value} }

// Int builds an int-valued field.
func Int(key string, value int) Field { return Field{key, value} }

// Uint builds a field from a uint, widened to uint64 for the backend.
func Uint(key string, value uint) Field { return Field{key, uint64(value)} }

// Uint64 builds a uint64-valued field.
func Uint64(key string, value uint64) Field { return Field{key, value} }

// Float64 builds a float64-valued field.
func Float64(key string, value float64) Field { return Field{key, value} }

// Err builds the conventional "error" field.
func Err(err error) Field { return Field{"error", err} }

// Logger is what application code logs against. Printf and Println mirror
// the standard library so a Logger can stand in where a *log.Logger used to.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)
	Printf(format string, args ...any)
	Println(args ...any)
}

// ZerologAdapter backs the Logger interface with a zerolog.Logger.
type ZerologAdapter struct {
	zl zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(zl zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{zl: zl}
}

// NewDefaultLogger returns a timestamped JSON logger on stderr.
func NewDefaultLogger() *ZerologAdapter {
	return NewZerologAdapter(zerolog.New(os.Stderr).With().Timestamp().Logger())
}

// NewLogger returns a timestamped JSON logger on w, tagging every entry with
// a "component" field so interleaved streams can be told apart.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	return NewZerologAdapter(
		zerolog.New(w).With().Str("component", component).Timestamp().Logger(),
	)
}

func emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		e = f.apply(e)
	}
	e.Msg(msg)
}

func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	emit(z.zl.Info(), msg, fields)
}

func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	emit(z.zl.Error().Err(err), msg, fields)
}

func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	emit(z.zl.Debug(), msg, fields)
}

func (z *ZerologAdapter) Printf(format string, args ...any) {
	z.zl.Info().Msgf(format, args...)
}

func (z *ZerologAdapter) Println(args ...any) {
	z.zl.Info().Msgf("%v", args)
}

// StdLoggerAdapter routes Logger calls to a *log.Logger. Fields are printed
// with %v after the message, which is plenty for plain-text output.
type StdLoggerAdapter struct {
	std *stdlog.Logger
}

// NewStdLoggerAdapter wraps an existing standard library logger.
func NewStdLoggerAdapter(std *stdlog.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{std: std}
}

func (s *StdLoggerAdapter) line(head string, fields []Field) {
	if len(fields) == 0 {
		s.std.Println(head)
		return
	}
	s.std.Printf("%s %v\n", head, fields)
}

func (s *StdLoggerAdapter) Info(msg string, fields ...Field) {
	s.line("[INFO] "+msg, fields)
}

func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	s.line(fmt.Sprintf("[ERROR] %s: %v", msg, err), fields)
}

func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) {
	s.line("[DEBUG] "+msg, fields)
}

func (s *StdLoggerAdapter) Printf(format string, args ...any) { s.std.Printf(format, args...) }

func (s *StdLoggerAdapter) Println(args ...any) { s.std.Println(args...) }
