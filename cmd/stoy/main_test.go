package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-stoy/config"
	"github.com/Carmen-Shannon/oxy-stoy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stoy/engine/stoy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureShaderWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shaders", "sprite.wgsl")

	created, err := ensureShader(path)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stoy.DefaultShader, string(data))
}

func TestEnsureShaderKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("// mine"), 0o644))

	created, err := ensureShader(path)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "// mine", string(data))
}

func TestEnsureShaderEmptyPath(t *testing.T) {
	created, err := ensureShader("")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestPresentMode(t *testing.T) {
	m, err := presentMode("vsync")
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeVSync, m)

	m, err = presentMode("uncapped")
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeUncapped, m)

	_, err = presentMode("mailbox")
	assert.Error(t, err)
}

func TestEngineOptions(t *testing.T) {
	cfg := config.Default()
	opts, err := engineOptions(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, opts, 5)

	cfg.Animation.TimeMode = "sometimes"
	_, err = engineOptions(cfg, nil)
	assert.Error(t, err)
}

func TestRunRejectsBadFlags(t *testing.T) {
	assert.Equal(t, 2, run([]string{"-no-such-flag"}, io.Discard))
}

func TestRunMissingExplicitConfig(t *testing.T) {
	assert.Equal(t, 1, run([]string{"-config", filepath.Join(t.TempDir(), "absent.toml")}, io.Discard))
}

func TestRunInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stoy.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = -1\n"), 0o644))
	assert.Equal(t, 1, run([]string{"-config", path}, io.Discard))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("stdout closed")
}

func TestRunPrintConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stoy.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"demo\"\n"), 0o644))

	var out bytes.Buffer
	require.Equal(t, 0, run([]string{"-config", path, "-print-config"}, &out))
	assert.Contains(t, out.String(), "demo")
	assert.Contains(t, out.String(), "vs_main")
}

func TestRunPrintConfigWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stoy.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	assert.Equal(t, 1, run([]string{"-config", path, "-print-config"}, failingWriter{}))
}
