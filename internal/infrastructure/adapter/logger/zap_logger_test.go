package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pin.log")

	l, err := NewZapLogger(Options{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)
	assert.Equal(t, core.LogLevelWarn, l.GetLevel())

	child := l.With(map[string]any{"environment": "test"})
	child.Info("dropped below level", nil)
	child.Warn("gateway slow", map[string]any{"endpoint": "charges"})
	require.NoError(t, l.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.NotContains(t, out, "dropped below level")
	assert.Contains(t, out, `"message":"gateway slow"`)
	assert.Contains(t, out, `"environment":"test"`)
	assert.Contains(t, out, `"endpoint":"charges"`)
}

func TestZapLoggerSetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pin.log")

	l, err := NewZapLogger(Options{Level: "error", Output: path})
	require.NoError(t, err)

	l.Debug("hidden", nil)
	l.SetLevel(core.LogLevelDebug)
	l.Debug("visible", nil)
	require.NoError(t, l.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	l.SetLevel(core.LogLevelError)
	assert.Equal(t, core.LogLevelError, l.GetLevel())
	assert.Same(t, l, l.With(map[string]any{"a": 1}))
	assert.NoError(t, l.Flush())
}
