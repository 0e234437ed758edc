package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdfinbox/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapLogger points the package logger at buf for the duration of the test.
func swapLogger(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := logger
	logger = NewLogger(append([]Option{WithOutput(&buf)}, opts...)...)
	t.Cleanup(func() { logger = original })
	return &buf
}

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "level=warning")
	assert.Contains(t, buf.String(), "warn message")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(), "error message")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))
	t.Cleanup(func() { SetDebug(false) })

	SetDebug(false)
	l.Debug("debug message")
	assert.Empty(t, buf.String())

	SetDebug(true)
	assert.True(t, IsDebug())
	l.Debug("debug message")
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "debug message")
	buf.Reset()

	l.Debugf("formatted %s", "debug")
	assert.Contains(t, buf.String(), "formatted debug")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("pane", "managed"), F("count", 12)).Info("scan complete")
	output := buf.String()
	assert.Contains(t, output, "scan complete")
	assert.Contains(t, output, "pane=managed")
	assert.Contains(t, output, "count=12")
	buf.Reset()

	l.With(F("pane", "unmanaged")).With(F("gen", 3)).Info("chained fields")
	output = buf.String()
	assert.Contains(t, output, "pane=unmanaged")
	assert.Contains(t, output, "gen=3")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.Info("json message")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "json message", entry["message"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "caller")
	buf.Reset()

	l.With(F("name", "paper.pdf"), F("size", 123)).Info("structured json")
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "paper.pdf", entry["name"])
	assert.Equal(t, float64(123), entry["size"])
}

func TestErrorLogging(t *testing.T) {
	buf := swapLogger(t)

	LogWithFields(F("error", fmt.Errorf("standard error").Error())).Error("error occurred")
	assert.Contains(t, buf.String(), "error occurred")
	assert.Contains(t, buf.String(), "standard error")
	buf.Reset()

	LogWithError(errors.New("application error")).Error("app error occurred")
	assert.Contains(t, buf.String(), "application error")
	assert.NotContains(t, buf.String(), "error_kind")
	buf.Reset()

	ioErr := errors.NewIOError("/inbox", nil)
	LogWithError(ioErr).Error("scan failed")
	output := buf.String()
	assert.Contains(t, output, "cannot read directory: /inbox")
	assert.Contains(t, output, "path=/inbox")
	assert.Contains(t, output, `error_kind="directory unreadable"`)
	buf.Reset()

	configErr := errors.NewConfigError("bad key", "keys.quit", errors.InvalidConfig, nil)
	LogError(configErr, "config rejected")
	output = buf.String()
	assert.Contains(t, output, "config rejected")
	assert.Contains(t, output, "param=keys.quit")
	assert.Contains(t, output, `error_kind="invalid config"`)
	buf.Reset()

	histErr := errors.NewHistoryError("write failed", "record", nil)
	LogWithError(histErr).Warn("history")
	assert.Contains(t, buf.String(), "operation=record")
}

func TestNestedErrors(t *testing.T) {
	buf := swapLogger(t)

	baseErr := fmt.Errorf("base error")
	fileErr := errors.NewFileError("file error", "/inbox/a.pdf", errors.FileNotFound, baseErr)
	configErr := errors.NewConfigError("config error", "directories.unmanaged", errors.InvalidConfig, fileErr)

	LogWithError(configErr).Error("nested error occurred")
	output := buf.String()
	assert.Contains(t, output, "config error: directories.unmanaged: file error: /inbox/a.pdf: base error")
	assert.Contains(t, output, `error_kind="invalid config"`)
	assert.Contains(t, output, "param=directories.unmanaged")
	assert.Contains(t, output, "path=/inbox/a.pdf")
}

func TestNilErrorHandling(t *testing.T) {
	buf := swapLogger(t)

	LogWithError(nil).Error("nil error test")
	assert.Contains(t, buf.String(), "nil error test")
	assert.Contains(t, buf.String(), `error="<nil>"`)
}

func TestCallerInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("caller test")
	assert.Contains(t, buf.String(), "caller=\"logger_test.go:")
	buf.Reset()

	buf2 := swapLogger(t)
	Warnf("package %s", "level")
	assert.Contains(t, buf2.String(), "logger_test.go:")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "pdfinbox.log")

	original := logger
	Configure(WithFile(path))
	t.Cleanup(func() {
		Close()
		logger = original
	})

	Info("file test message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file test message")
}

func TestConfigureJSON(t *testing.T) {
	original := logger
	t.Cleanup(func() { logger = original })

	var buf bytes.Buffer
	Configure(WithOutput(&buf), WithJSON())
	Info("global config test")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "global config test", entry["message"])
}
