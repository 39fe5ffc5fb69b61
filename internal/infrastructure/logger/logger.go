// Package logger internal/infrastructure/logger/logger.go
package logger

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Level represents the severity level of a log message
type Level string

const (
	// DebugLevel is used for development messages
	DebugLevel Level = "DEBUG"
	// InfoLevel is used for general operational information
	InfoLevel Level = "INFO"
	// WarnLevel is used for warnings and potential issues
	WarnLevel Level = "WARN"
	// ErrorLevel is used for errors and unexpected events
	ErrorLevel Level = "ERROR"
	// FatalLevel is used for critical errors that require termination
	FatalLevel Level = "FATAL"
)

// ParseLevel converts a level name to a Level, defaulting to InfoLevel
func ParseLevel(s string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel
	case WarnLevel, "WARNING":
		return WarnLevel
	case ErrorLevel:
		return ErrorLevel
	case FatalLevel:
		return FatalLevel
	default:
		return InfoLevel
	}
}

func (l Level) hclogLevel() hclog.Level {
	switch l {
	case DebugLevel:
		return hclog.Debug
	case WarnLevel:
		return hclog.Warn
	case ErrorLevel, FatalLevel:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// Options configures a logger created with New
type Options struct {
	Name   string
	Output io.Writer
	Level  Level
	// JSON switches from the human readable line format to one JSON object per line
	JSON bool
}

// HCLogger is a Logger backed by hclog
type HCLogger struct {
	hl hclog.Logger
}

// New creates a new hclog backed logger
func New(opts Options) *HCLogger {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &HCLogger{
		hl: hclog.New(&hclog.LoggerOptions{
			Name:                     opts.Name,
			Level:                    opts.Level.hclogLevel(),
			Output:                   opts.Output,
			JSONFormat:               opts.JSON,
			IncludeLocation:          true,
			AdditionalLocationOffset: 1,
		}),
	}
}

// NewJSONLogger creates a new logger that outputs structured JSON logs
func NewJSONLogger(output io.Writer, level Level) *HCLogger {
	return New(Options{Output: output, Level: level, JSON: true})
}

// NewNullLogger creates a logger that discards everything
func NewNullLogger() *HCLogger {
	return &HCLogger{hl: hclog.NewNullLogger()}
}

// HCLog exposes the underlying hclog logger
func (l *HCLogger) HCLog() hclog.Logger {
	return l.hl
}

// WithField returns a new logger with the field added to the log context
func (l *HCLogger) WithField(key string, value interface{}) Logger {
	return &HCLogger{hl: l.hl.With(key, value)}
}

// WithFields returns a new logger with the fields added to the log context
func (l *HCLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}
	return &HCLogger{hl: l.hl.With(flatten(fields)...)}
}

// Debug logs a message at debug level
func (l *HCLogger) Debug(msg string, fields map[string]interface{}) {
	l.hl.Debug(msg, flatten(fields)...)
}

// Info logs a message at info level
func (l *HCLogger) Info(msg string, fields map[string]interface{}) {
	l.hl.Info(msg, flatten(fields)...)
}

// Warn logs a message at warn level
func (l *HCLogger) Warn(msg string, fields map[string]interface{}) {
	l.hl.Warn(msg, flatten(fields)...)
}

// Error logs a message at error level
func (l *HCLogger) Error(msg string, fields map[string]interface{}) {
	l.hl.Error(msg, flatten(fields)...)
}

// Fatal logs a message at error level and then terminates the program
func (l *HCLogger) Fatal(msg string, fields map[string]interface{}) {
	l.hl.Error(msg, flatten(fields)...)
	os.Exit(1)
}

// flatten turns a field map into hclog key/value pairs, sorted by key
func flatten(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}

// Default logger instances
var (
	defaultLogger Logger = New(Options{Level: InfoLevel})
)

// GetDefaultLogger returns the default logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger sets the default logger
func SetDefaultLogger(logger Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// Debug Global logger functions
func Debug(msg string, fields map[string]interface{}) {
	defaultLogger.Debug(msg, fields)
}

func Info(msg string, fields map[string]interface{}) {
	defaultLogger.Info(msg, fields)
}

func Warn(msg string, fields map[string]interface{}) {
	defaultLogger.Warn(msg, fields)
}

func Error(msg string, fields map[string]interface{}) {
	defaultLogger.Error(msg, fields)
}

func Fatal(msg string, fields map[string]interface{}) {
	defaultLogger.Fatal(msg, fields)
}
