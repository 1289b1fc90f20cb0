package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"logview/internal/config"
)

//go:generate mockgen -source=logger.go -destination=logger_mock.go -package=logger

// Logger configuration constants
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
	FatalLevel = "fatal"
	PanicLevel = "panic"
	TraceLevel = "trace"

	ConsoleFormat = "console"
	JSONFormat    = "json"

	TimeFormat = "02.01.2006 15:04:05"
)

// Logger interface for application logging
type Logger interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	WithComponent(name string) Logger
	SetLevel(level string)
}

// Sink redirects log output, a nil Writer keeps the format default
type Sink struct {
	Writer io.Writer
}

// AppLogger represents a logger implementation using zerolog
type AppLogger struct {
	log  zerolog.Logger
	file *os.File
}

// NewLogger creates a new logger instance
func NewLogger(cfg *config.Config) Logger {
	return NewLoggerWithOutput(cfg, nil)
}

// NewSinkLogger creates the logger provided to the fx graph
func NewSinkLogger(cfg *config.Config, sink Sink) Logger {
	return NewLoggerWithOutput(cfg, sink.Writer)
}

// NewLoggerWithOutput creates a new logger instance with a custom output writer.
// A configured logging.file always wins over the custom writer.
func NewLoggerWithOutput(cfg *config.Config, customOutput io.Writer) Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = InfoLevel
	}

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = ConsoleFormat
	}

	zerolog.SetGlobalLevel(getLogLevel(cfg.Logging.Level))

	output, file, openErr := resolveOutput(cfg, customOutput)

	logger := zerolog.
		New(output).
		Level(zerolog.TraceLevel).
		With().
		Timestamp().
		Str("version", config.Version).
		Logger()

	if openErr != nil {
		logger.Warn().Err(openErr).Str("file", cfg.Logging.File).Msg("Failed to open log file, using default output")
	}

	return &AppLogger{log: logger, file: file}
}

// Close releases the log file, if one was opened
func (l *AppLogger) Close() error {
	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil

	return err
}

// Debug returns a debug level Event for logging debug messages
func (l *AppLogger) Debug() *zerolog.Event {
	return l.log.Debug()
}

// Info returns an info level Event for logging informational messages
func (l *AppLogger) Info() *zerolog.Event {
	return l.log.Info()
}

// Warn returns a warn level Event for logging warning messages
func (l *AppLogger) Warn() *zerolog.Event {
	return l.log.Warn()
}

// Error returns an error level Event for logging error messages
func (l *AppLogger) Error() *zerolog.Event {
	return l.log.Error()
}

// WithComponent creates a new logger with a component name for contextual logging
func (l *AppLogger) WithComponent(name string) Logger {
	return &AppLogger{
		log: l.log.With().Str("component", name).Logger(),
	}
}

// SetLevel changes the minimum level of every logger in the process
func (l *AppLogger) SetLevel(level string) {
	zerolog.SetGlobalLevel(getLogLevel(level))
}

// resolveOutput picks the log destination. When logging.file cannot be opened the
// fallback writer is returned along with the open error.
func resolveOutput(cfg *config.Config, customOutput io.Writer) (io.Writer, *os.File, error) {
	var openErr error

	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err == nil {
			if cfg.Logging.Format == JSONFormat {
				return file, file, nil
			}

			return newConsoleWriter(file, true), file, nil
		}

		openErr = err
	}

	if customOutput != nil {
		return customOutput, nil, openErr
	}

	if cfg.Logging.Format == JSONFormat {
		return os.Stdout, nil, openErr
	}

	return newConsoleWriter(os.Stdout, false), nil, openErr
}

// newConsoleWriter creates a console writer with component formatting
func newConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: TimeFormat,
		FormatFieldName: func(i interface{}) string {
			if s, ok := i.(string); ok && s == "component" {
				return ""
			}

			return fmt.Sprintf("%s=", i)
		},
		FormatPrepare: func(m map[string]interface{}) error {
			if component, ok := m["component"].(string); ok {
				m["component"] = fmt.Sprintf("[%s]", component)
			}

			return nil
		},
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			"component",
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
	}
}

// getLogLevel converts string level to zerolog.Level
func getLogLevel(level string) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	case PanicLevel:
		return zerolog.PanicLevel
	case TraceLevel:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}
