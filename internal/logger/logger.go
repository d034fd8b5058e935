package logger

import (
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/errors"
	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the global logger with the given level name
func Init(level string, isService bool) error {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	log = zerolog.New(output).With().Timestamp().Logger()

	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	SetLogLevel(parsed)

	return nil
}

// ParseLevel maps a configured level name to a LogLevel
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, errors.New().WithData(errors.ErrInvalidLogLevel, level)
	}
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{withCode(log.Error(), err)}
}

// Fatal logs a fatal message and exits the program
func Fatal() *LogEvent {
	return &LogEvent{log.Fatal()}
}

// FatalWithCode logs a fatal message with a specific error code and exits the program
func FatalWithCode(err errors.Error) *LogEvent {
	return &LogEvent{withCode(log.Fatal(), err)}
}

func withCode(e *zerolog.Event, err errors.Error) *zerolog.Event {
	return e.
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())
}

// componentLogger implements Logger on top of a zerolog.Logger.
// A nil base means the global logger, resolved at call time so that
// loggers created before Init still honour its output settings.
type componentLogger struct {
	base      *zerolog.Logger
	component string
}

// New returns a Logger tagged with the given component name.
func New(component string) Logger {
	return &componentLogger{component: component}
}

// NewWithWriter returns a Logger writing JSON lines to w.
func NewWithWriter(w io.Writer, component string) Logger {
	zl := zerolog.New(w).With().Timestamp().Logger()
	return &componentLogger{base: &zl, component: component}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	zl := zerolog.Nop()
	return &componentLogger{base: &zl}
}

func (l *componentLogger) logger() zerolog.Logger {
	base := log
	if l.base != nil {
		base = *l.base
	}
	if l.component == "" {
		return base
	}

	return base.With().Str("component", l.component).Logger()
}

func (l *componentLogger) Debug() *LogEvent {
	zl := l.logger()
	return &LogEvent{zl.Debug()}
}

func (l *componentLogger) Info() *LogEvent {
	zl := l.logger()
	return &LogEvent{zl.Info()}
}

func (l *componentLogger) Warn() *LogEvent {
	zl := l.logger()
	return &LogEvent{zl.Warn()}
}

func (l *componentLogger) Error() *LogEvent {
	zl := l.logger()
	return &LogEvent{zl.Error()}
}

func (l *componentLogger) ErrorWithCode(err errors.Error) *LogEvent {
	zl := l.logger()
	return &LogEvent{withCode(zl.Error(), err)}
}

func (l *componentLogger) With(component string) Logger {
	if l.component != "" {
		component = l.component + "." + component
	}

	return &componentLogger{base: l.base, component: component}
}
