// Package log is the structured logger shared by every pdfinbox package.
// The TUI owns stdout, so the default logger is pointed at a file (or
// discarded) by the command runner through Configure.
package log

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"

	"pdfinbox/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus entry with the fields accumulated through With.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

type options struct {
	out  io.Writer
	json bool
	file string
}

// Option configures NewLogger.
type Option func(*options)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile appends log lines to the file at path, creating it and its
// parent directory when needed.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// NewLogger builds a logger. Without options it writes text to stderr.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logger{}
	if o.file != "" {
		if err := os.MkdirAll(filepath.Dir(o.file), 0o755); err == nil {
			if f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				l.file = f
				o.out = f
			}
		}
	}

	base := logrus.New()
	base.SetOutput(o.out)
	base.SetLevel(logrus.DebugLevel)
	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package logger. The previous logger's file, if
// any, is closed.
func Configure(opts ...Option) {
	old := logger
	logger = NewLogger(opts...)
	old.Close()
}

// Discard silences the package logger.
func Discard() {
	Configure(WithOutput(io.Discard))
}

// Close releases the log file, if the logger owns one.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Close releases the package logger's file.
func Close() error {
	return logger.Close()
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// IsDebug reports whether debug output is enabled.
func IsDebug() bool {
	return isDebug.Load()
}

// With returns a logger carrying the given fields in addition to l's.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithError attaches err and, for application errors, its kind and
// subject (path or parameter).
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error())}
	if kind := errors.KindOf(err); kind != errors.Unknown {
		fields = append(fields, F("error_kind", kind.String()))
	}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var histErr *errors.HistoryError
	if errors.As(err, &histErr) && histErr.Operation() != "" {
		fields = append(fields, F("operation", histErr.Operation()))
	}
	return l.With(fields...)
}

func (l *Logger) log(level logrus.Level, args ...interface{}) {
	if level == logrus.DebugLevel && !isDebug.Load() {
		return
	}
	l.withCaller(3).Log(level, args...)
}

func (l *Logger) logf(level logrus.Level, format string, args ...interface{}) {
	if level == logrus.DebugLevel && !isDebug.Load() {
		return
	}
	l.withCaller(3).Logf(level, format, args...)
}

func (l *Logger) withCaller(skip int) *logrus.Entry {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return l.entry
	}
	return l.entry.WithField("caller", filepath.Base(file)+":"+strconv.Itoa(line))
}

func (l *Logger) Debug(args ...interface{}) { l.log(logrus.DebugLevel, args...) }
func (l *Logger) Info(args ...interface{})  { l.log(logrus.InfoLevel, args...) }
func (l *Logger) Warn(args ...interface{})  { l.log(logrus.WarnLevel, args...) }
func (l *Logger) Error(args ...interface{}) { l.log(logrus.ErrorLevel, args...) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(logrus.DebugLevel, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(logrus.InfoLevel, format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(logrus.WarnLevel, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(logrus.ErrorLevel, format, args...)
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger with err attached.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	logger.WithError(err).log(logrus.ErrorLevel, msg)
}

// Debug logs at debug level when debug output is enabled.
func Debug(args ...interface{}) { logger.log(logrus.DebugLevel, args...) }

// Info logs at info level.
func Info(args ...interface{}) { logger.log(logrus.InfoLevel, args...) }

// Warn logs at warn level.
func Warn(args ...interface{}) { logger.log(logrus.WarnLevel, args...) }

// Error logs at error level.
func Error(args ...interface{}) { logger.log(logrus.ErrorLevel, args...) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	logger.logf(logrus.DebugLevel, format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	logger.logf(logrus.InfoLevel, format, args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) {
	logger.logf(logrus.WarnLevel, format, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	logger.logf(logrus.ErrorLevel, format, args...)
}
