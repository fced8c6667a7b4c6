package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/coat-terminal/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.Config{LogFormat: "json", LogLevel: slog.LevelInfo}, &buf, "coat-check")

	logger.Info("checked", "take_coat", true)
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "checked", entry["msg"])
	assert.Equal(t, "coat-check", entry["app"])
	assert.Equal(t, true, entry["take_coat"])
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.Config{LogFormat: "text", LogLevel: slog.LevelWarn}, &buf, "coat-terminal")

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud", "reason", "cold")
	out := buf.String()
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "reason=cold")
	assert.NotContains(t, out, "\x1b[", "buffers should not receive colour codes")
}

func TestOpenFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString("hello\n")
	require.NoError(t, err)
}

func TestNew_RegularFileGetsNoColour(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "app.log"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(f))

	logger := New(config.Config{LogFormat: "text", LogLevel: slog.LevelInfo}, f, "coat-terminal")
	logger.Warn("windy", "speed", 30)

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "windy")
	assert.NotContains(t, string(data), "\x1b[")
}

func TestFileOrDiscard(t *testing.T) {
	t.Run("opens the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")
		var warn bytes.Buffer

		w, closeFn := FileOrDiscard(path, &warn)
		_, err := io.WriteString(w, "hello\n")
		require.NoError(t, err)
		closeFn()

		assert.Empty(t, warn.String())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	})

	t.Run("warns and discards when the path is unusable", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))
		path := filepath.Join(blocker, "app.log")
		var warn bytes.Buffer

		w, closeFn := FileOrDiscard(path, &warn)
		defer closeFn()

		assert.Equal(t, io.Discard, w)
		assert.Contains(t, warn.String(), "warning: logging disabled")
		assert.Contains(t, warn.String(), path)
	})
}
