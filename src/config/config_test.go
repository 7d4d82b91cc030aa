package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ritis/src/render"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, 2, cfg.Render.FramesInFlight)
	assert.Equal(t, [4]float32{0.01, 0.01, 0.01, 1}, cfg.Render.ClearColor)
	assert.True(t, cfg.Render.VSync)
	assert.False(t, cfg.Render.Validation)

	binding, err := cfg.Binding()
	require.NoError(t, err)
	assert.Equal(t, render.BindPerFrameSlot, binding)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
window:
  width: 1280
render:
  binding: per-image
  framesInFlight: 3
  clearColor: [0, 0, 0.2, 1]
log:
  level: debug
  format: json
`))
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "Ritis", cfg.Window.Title)
	assert.Equal(t, 3, cfg.Render.FramesInFlight)
	assert.Equal(t, [4]float32{0, 0, 0.2, 1}, cfg.Render.ClearColor)
	assert.True(t, cfg.Render.VSync)

	binding, err := cfg.Binding()
	require.NoError(t, err)
	assert.Equal(t, render.BindPerImage, binding)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("render:\n  framesinflight: 3\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"negative height", func(c *Config) { c.Window.Height = -1 }, "window size"},
		{"no frames in flight", func(c *Config) { c.Render.FramesInFlight = 0 }, "framesInFlight"},
		{"unknown binding", func(c *Config) { c.Render.Binding = "per-pixel" }, "render.binding"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, "ritis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  title: test\n"), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Window.Title)

	require.NoError(t, os.WriteFile(path, []byte("render:\n  framesInFlight: 0\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv(EnvPath, "/etc/ritis.yaml")
	assert.Equal(t, "/etc/ritis.yaml", Path())
}

func TestRenderOptions(t *testing.T) {
	cfg := Default()
	opts, err := cfg.RenderOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	cfg.Render.Binding = "nope"
	_, err = cfg.RenderOptions()
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	l, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "frame", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"frame":1`)

	buf.Reset()
	cfg.Log.Format = "text"
	l, err = cfg.NewLogger(&buf)
	require.NoError(t, err)
	l.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
