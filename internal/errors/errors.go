// Package errors provides standardized error handling for pdfinbox.
// It defines the error kinds raised while scanning, importing and
// configuring, along with helpers for consistent creation and wrapping.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrInvalidPath      = NewFileError("not a plain file name", "", InvalidPath, nil)
	ErrNotUnmanaged     = New("only unmanaged files can be imported")
	ErrPlaceholderEntry = NewFileError("file name is not valid UTF-8", "", InvalidNameEncoding, nil)
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Scan error kinds
	DirectoryUnreadable
	EntryMetadata
	InvalidNameEncoding
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileOperationFailed
	ImportCollision
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// History error kinds
	HistoryUnavailable
)

var kindNames = map[ErrorKind]string{
	Unknown:             "unknown",
	DirectoryUnreadable: "directory unreadable",
	EntryMetadata:       "entry metadata",
	InvalidNameEncoding: "invalid name encoding",
	FileNotFound:        "file not found",
	FileAccessDenied:    "file access denied",
	InvalidPath:         "invalid path",
	FileOperationFailed: "file operation failed",
	ImportCollision:     "import collision",
	InvalidConfig:       "invalid config",
	ConfigNotFound:      "config not found",
	HistoryUnavailable:  "history unavailable",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors tied to a path on disk: an unreadable
// directory, a failed stat, a blocked move.
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// NewIOError creates the error returned when a scan cannot open its directory.
func NewIOError(dir string, err error) *FileError {
	return NewFileError("cannot read directory", dir, DirectoryUnreadable, err)
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// HistoryError represents failures of the import history store
type HistoryError struct {
	ApplicationError
	operation string
}

// NewHistoryError creates a new history store error
func NewHistoryError(msg string, operation string, err error) *HistoryError {
	return &HistoryError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: HistoryUnavailable,
		},
		operation: operation,
	}
}

// Error returns the history error message
func (e *HistoryError) Error() string {
	if e.operation != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: operation=%s: %v", e.msg, e.operation, e.err)
		}
		return fmt.Sprintf("%s: operation=%s", e.msg, e.operation)
	}
	return e.ApplicationError.Error()
}

// Operation returns the store operation that failed
func (e *HistoryError) Operation() string {
	return e.operation
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first application error in err's chain
// that carries one, or Unknown.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

func hasFileKind(err error, kind ErrorKind) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == kind
	}
	return false
}

// IsDirectoryUnreadable checks if the error is a failed directory open
func IsDirectoryUnreadable(err error) bool {
	return hasFileKind(err, DirectoryUnreadable)
}

// IsEntryMetadata checks if the error is a failed per-entry stat
func IsEntryMetadata(err error) bool {
	return hasFileKind(err, EntryMetadata)
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	return hasFileKind(err, FileNotFound)
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	return hasFileKind(err, FileAccessDenied)
}

// IsImportCollision checks if an import was refused because the
// destination already exists
func IsImportCollision(err error) bool {
	return hasFileKind(err, ImportCollision)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsConfigNotFound checks if the configuration file was missing
func IsConfigNotFound(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == ConfigNotFound
	}
	return false
}

// IsHistoryError checks if the error came from the history store
func IsHistoryError(err error) bool {
	var histErr *HistoryError
	return errors.As(err, &histErr)
}
