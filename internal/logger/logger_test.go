package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriter(t *testing.T) {
	orig := L
	t.Cleanup(func() { L = orig })

	var out bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &out, Level: slog.LevelDebug}))

	Debug("extend", "bytes", 4096)
	assert.Contains(t, out.String(), "extend")
	assert.Contains(t, out.String(), "bytes=4096")
}

func TestInitJSONRespectsLevel(t *testing.T) {
	orig := L
	t.Cleanup(func() { L = orig })

	var out bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &out, Level: slog.LevelWarn, JSON: true}))

	Info("dropped")
	Warn("kept", "ptr", 16)
	assert.NotContains(t, out.String(), "dropped")
	assert.Contains(t, out.String(), `"msg":"kept"`)
}

func TestInitDisabledDiscards(t *testing.T) {
	orig := L
	t.Cleanup(func() { L = orig })

	require.NoError(t, Init(Options{Enabled: false}))
	assert.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInitLogDir(t *testing.T) {
	orig := L
	t.Cleanup(func() { L = orig })

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(Options{Enabled: true, LogDir: dir}))
	Error("boom")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), logPrefix)
}
