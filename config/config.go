// Package config loads dashboard settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// DefaultPath is read when neither a flag nor CONFIG_PATH names a file.
const DefaultPath = "irisdash.yaml"

// Config holds server and presentation settings.
type Config struct {
	Addr  string `yaml:"addr"`
	Title string `yaml:"title"`

	PreviewRows int `yaml:"preview_rows"`
	Bins        int `yaml:"bins"` // 0 = automatic
	KDEPoints   int `yaml:"kde_points"`

	ChartWidth  int `yaml:"chart_width"`
	ChartHeight int `yaml:"chart_height"`

	ReadTimeoutSeconds     int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:                   ":8501",
		Title:                  "Iris Dataset Explorer",
		PreviewRows:            5,
		Bins:                   0,
		KDEPoints:              200,
		ChartWidth:             720,
		ChartHeight:            420,
		ReadTimeoutSeconds:     10,
		WriteTimeoutSeconds:    30,
		ShutdownTimeoutSeconds: 5,
	}
}

// Load reads path (or $CONFIG_PATH, or DefaultPath) over the defaults, then
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		log.Printf("📋 Loaded config from %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	envOverride(&cfg.Addr, "IRISDASH_ADDR")
	envOverride(&cfg.Title, "IRISDASH_TITLE")
	if err := envOverrideInt(&cfg.PreviewRows, "IRISDASH_PREVIEW_ROWS"); err != nil {
		return Config{}, err
	}
	if err := envOverrideInt(&cfg.Bins, "IRISDASH_BINS"); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges of every numeric setting.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr is required", ErrInvalid)
	case c.PreviewRows < 1:
		return fmt.Errorf("%w: preview_rows must be >= 1, got %d", ErrInvalid, c.PreviewRows)
	case c.Bins < 0:
		return fmt.Errorf("%w: bins must be >= 0, got %d", ErrInvalid, c.Bins)
	case c.KDEPoints < 2:
		return fmt.Errorf("%w: kde_points must be >= 2, got %d", ErrInvalid, c.KDEPoints)
	case c.ChartWidth < 100 || c.ChartHeight < 100:
		return fmt.Errorf("%w: chart size %dx%d is too small", ErrInvalid, c.ChartWidth, c.ChartHeight)
	case c.ReadTimeoutSeconds < 1 || c.WriteTimeoutSeconds < 1 || c.ShutdownTimeoutSeconds < 1:
		return fmt.Errorf("%w: timeouts must be >= 1 second", ErrInvalid)
	}
	return nil
}

// ReadTimeout returns the server read timeout.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout.
func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout bounds graceful shutdown.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: %s %q: %v", ErrInvalid, envKey, val, err)
		}
		*field = parsed
	}
	return nil
}
