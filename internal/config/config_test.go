package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/slope-calculator/internal/obs"
)

var envKeys = []string{
	"CONFIG_FILE", "HTTP_ADDR", "LOG_LEVEL", "INPUT_STEP",
	"DEFAULT_X1", "DEFAULT_Y1", "DEFAULT_X2", "DEFAULT_Y2", "DEFAULT_SHOW_PLOT",
	"PLOT_WIDTH", "PLOT_HEIGHT", "SHUTDOWN_TIMEOUT", "PLOT_CACHE_TTL_SEC", "SESSION_TTL_SEC",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c := Load()
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 15*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 0.1, c.InputStep)
	assert.Equal(t, [4]float64{0, 0, 1, 1}, [4]float64{c.DefaultX1, c.DefaultY1, c.DefaultX2, c.DefaultY2})
	assert.True(t, c.DefaultShowPlot)
	assert.Equal(t, 1000, c.PlotWidth)
	assert.Equal(t, 600, c.PlotHeight)
	assert.Equal(t, 5*time.Minute, c.PlotCacheTTL)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "2")
	t.Setenv("INPUT_STEP", "0.5")
	t.Setenv("DEFAULT_X2", "3.5")
	t.Setenv("DEFAULT_SHOW_PLOT", "false")
	t.Setenv("PLOT_WIDTH", "640")
	t.Setenv("SESSION_TTL_SEC", "60")
	c := Load()
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, 2*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 0.5, c.InputStep)
	assert.Equal(t, 3.5, c.DefaultX2)
	assert.False(t, c.DefaultShowPlot)
	assert.Equal(t, 640, c.PlotWidth)
	assert.Equal(t, time.Minute, c.SessionTTL)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_STEP", "-1")
	t.Setenv("DEFAULT_Y1", "abc")
	t.Setenv("DEFAULT_SHOW_PLOT", "maybe")
	c := Load()
	assert.Equal(t, 0.1, c.InputStep)
	assert.Equal(t, 0.0, c.DefaultY1)
	assert.True(t, c.DefaultShowPlot)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":7070\"\ndefault_x1: -4\nplot_height: 300\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PLOT_HEIGHT", "480")
	c := Load()
	assert.Equal(t, ":7070", c.HTTPAddr)
	assert.Equal(t, -4.0, c.DefaultX1)
	assert.Equal(t, 480, c.PlotHeight)
	assert.Equal(t, 1.0, c.DefaultY2)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plot_width: [1, 2"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLoadRejectsNonFiniteFloats(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_STEP", "Inf")
	t.Setenv("DEFAULT_X1", "NaN")
	t.Setenv("DEFAULT_Y2", "-Inf")
	t.Setenv("DEFAULT_X2", "1e400")
	c := Load()
	assert.Equal(t, 0.1, c.InputStep)
	assert.Equal(t, 0.0, c.DefaultX1)
	assert.Equal(t, 1.0, c.DefaultX2)
	assert.Equal(t, 1.0, c.DefaultY2)
}

func TestLoadFileNonFiniteFallsBack(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_y1: .nan\ninput_step: .inf\nplot_width: 800\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	c := Load()
	assert.Equal(t, 0.0, c.DefaultY1)
	assert.Equal(t, 0.1, c.InputStep)
	assert.Equal(t, 800, c.PlotWidth)
}

func TestLoadLogsUnreadableFile(t *testing.T) {
	clearEnv(t)
	var buf bytes.Buffer
	prev := obs.Logger
	obs.Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { obs.Logger = prev })

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plot_width: [1, 2"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":6060")
	c := Load()
	assert.Equal(t, ":6060", c.HTTPAddr)
	assert.Equal(t, 1000, c.PlotWidth)
	assert.Contains(t, buf.String(), `"msg":"config_file_ignored"`)
	assert.Contains(t, buf.String(), "bad.yaml")
}
