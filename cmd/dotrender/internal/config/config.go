package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory
const FileName = "dotrender.yaml"

// Config represents the dotrender.yaml configuration
type Config struct {
	// Box the diagram is fitted into, in display units
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	// Graphviz layout engine: dot, neato, fdp, circo or twopi
	Layout string `yaml:"layout,omitempty"`

	// Preview server configuration
	Serve *ServeConfig `yaml:"serve,omitempty"`

	// Logging configuration
	Log *LogConfig `yaml:"log,omitempty"`
}

// ServeConfig contains preview server configuration
type ServeConfig struct {
	// Address to listen on
	Addr string `yaml:"addr,omitempty"`

	// Quiet period before a file change is rendered
	Debounce time.Duration `yaml:"debounce,omitempty"`

	// Whether to show the terminal status view
	TUI *bool `yaml:"tui,omitempty"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	// debug, info, warn or error
	Level string `yaml:"level,omitempty"`

	// console or json
	Format string `yaml:"format,omitempty"`
}

// Load loads .env and dotrender.yaml from dir, then applies DOTRENDER_*
// environment overrides
func Load(dir string) (*Config, error) {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	cfg, err := LoadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a configuration file. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &config, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	tui := true
	return &Config{
		Width:  800,
		Height: 600,
		Layout: "dot",
		Serve: &ServeConfig{
			Addr:     "localhost:5180",
			Debounce: 100 * time.Millisecond,
			TUI:      &tui,
		},
		Log: &LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// applyDefaults applies default values to missing configuration
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Width == 0 {
		config.Width = defaults.Width
	}
	if config.Height == 0 {
		config.Height = defaults.Height
	}
	if config.Layout == "" {
		config.Layout = defaults.Layout
	}

	if config.Serve == nil {
		config.Serve = defaults.Serve
	} else {
		if config.Serve.Addr == "" {
			config.Serve.Addr = defaults.Serve.Addr
		}
		if config.Serve.Debounce == 0 {
			config.Serve.Debounce = defaults.Serve.Debounce
		}
		if config.Serve.TUI == nil {
			config.Serve.TUI = defaults.Serve.TUI
		}
	}

	if config.Log == nil {
		config.Log = defaults.Log
	} else {
		if config.Log.Level == "" {
			config.Log.Level = defaults.Log.Level
		}
		if config.Log.Format == "" {
			config.Log.Format = defaults.Log.Format
		}
	}
}

// applyEnv overrides values from DOTRENDER_* environment variables
func applyEnv(config *Config) error {
	if v := os.Getenv("DOTRENDER_WIDTH"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DOTRENDER_WIDTH: %w", err)
		}
		config.Width = f
	}
	if v := os.Getenv("DOTRENDER_HEIGHT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DOTRENDER_HEIGHT: %w", err)
		}
		config.Height = f
	}
	if v := os.Getenv("DOTRENDER_LAYOUT"); v != "" {
		config.Layout = v
	}
	if v := os.Getenv("DOTRENDER_ADDR"); v != "" {
		config.Serve.Addr = v
	}
	if v := os.Getenv("DOTRENDER_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	return config.Validate()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("box size must not be negative, got %gx%g", c.Width, c.Height)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// TUIEnabled reports whether the serve status view is on
func (c *Config) TUIEnabled() bool {
	return c.Serve.TUI == nil || *c.Serve.TUI
}
