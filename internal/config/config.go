// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/slope-calculator/internal/obs"
)

// Config holds configuration knobs for the HTTP server, the form defaults
// and the plot renderer.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"-"`
	LogLevel        string        `yaml:"log_level"`

	InputStep       float64 `yaml:"input_step"`
	DefaultX1       float64 `yaml:"default_x1"`
	DefaultY1       float64 `yaml:"default_y1"`
	DefaultX2       float64 `yaml:"default_x2"`
	DefaultY2       float64 `yaml:"default_y2"`
	DefaultShowPlot bool    `yaml:"default_show_plot"`

	PlotWidth    int           `yaml:"plot_width"`
	PlotHeight   int           `yaml:"plot_height"`
	PlotCacheTTL time.Duration `yaml:"-"`
	SessionTTL   time.Duration `yaml:"-"`

	ShutdownTimeoutSec int `yaml:"shutdown_timeout_sec"`
	PlotCacheTTLSec    int `yaml:"plot_cache_ttl_sec"`
	SessionTTLSec      int `yaml:"session_ttl_sec"`
}

func defaults() Config {
	return Config{
		HTTPAddr:           ":8080",
		LogLevel:           "info",
		InputStep:          0.1,
		DefaultX1:          0,
		DefaultY1:          0,
		DefaultX2:          1,
		DefaultY2:          1,
		DefaultShowPlot:    true,
		PlotWidth:          1000,
		PlotHeight:         600,
		ShutdownTimeoutSec: 15,
		PlotCacheTTLSec:    300,
		SessionTTLSec:      1800,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !finite(f) {
		return def
	}
	return f
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// LoadFile reads a YAML config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	c := defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Load collects configuration from the optional CONFIG_FILE and the
// environment. Environment variables win over the file; unparsable or
// non-finite values fall back to the previous layer. A CONFIG_FILE that
// cannot be read or parsed is logged and skipped.
func Load() Config {
	c := defaults()
	if path := getenv("CONFIG_FILE", ""); path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			obs.Logger.Warn("config_file_ignored", "path", path, "error", err)
		} else {
			c = fc
		}
	}
	def := defaults()
	for _, f := range []struct {
		dst *float64
		def float64
	}{
		{&c.InputStep, def.InputStep},
		{&c.DefaultX1, def.DefaultX1},
		{&c.DefaultY1, def.DefaultY1},
		{&c.DefaultX2, def.DefaultX2},
		{&c.DefaultY2, def.DefaultY2},
	} {
		if !finite(*f.dst) {
			*f.dst = f.def
		}
	}
	c.HTTPAddr = getenv("HTTP_ADDR", c.HTTPAddr)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.InputStep = floatenv("INPUT_STEP", c.InputStep)
	c.DefaultX1 = floatenv("DEFAULT_X1", c.DefaultX1)
	c.DefaultY1 = floatenv("DEFAULT_Y1", c.DefaultY1)
	c.DefaultX2 = floatenv("DEFAULT_X2", c.DefaultX2)
	c.DefaultY2 = floatenv("DEFAULT_Y2", c.DefaultY2)
	c.DefaultShowPlot = boolenv("DEFAULT_SHOW_PLOT", c.DefaultShowPlot)
	c.PlotWidth = atoienv("PLOT_WIDTH", c.PlotWidth)
	c.PlotHeight = atoienv("PLOT_HEIGHT", c.PlotHeight)
	c.ShutdownTimeoutSec = atoienv("SHUTDOWN_TIMEOUT", c.ShutdownTimeoutSec)
	c.PlotCacheTTLSec = atoienv("PLOT_CACHE_TTL_SEC", c.PlotCacheTTLSec)
	c.SessionTTLSec = atoienv("SESSION_TTL_SEC", c.SessionTTLSec)

	if c.InputStep <= 0 {
		c.InputStep = 0.1
	}
	c.ShutdownTimeout = time.Duration(c.ShutdownTimeoutSec) * time.Second
	c.PlotCacheTTL = time.Duration(c.PlotCacheTTLSec) * time.Second
	c.SessionTTL = time.Duration(c.SessionTTLSec) * time.Second
	return c
}
