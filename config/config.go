package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	// EnvConfigPath overrides the default config file location
	EnvConfigPath = "DISPLAYCLI_CONFIG"

	DefaultListenAddress = "localhost:12000"
	DefaultFrameRate     = 90.0
	DefaultAdbPath       = "adb"
	DefaultStrategy      = "auto"
)

type ServerConfig struct {
	Listen string `ini:"listen"`
	CORS   bool   `ini:"cors"`
}

type DisplayConfig struct {
	DefaultHz float64 `ini:"default_hz"`
	// Strategy is auto, legacy or modern
	Strategy string `ini:"strategy"`
	// RestoreOnExit hands devices their refresh settings back when the server stops
	RestoreOnExit bool `ini:"restore_on_exit"`
}

type AdbConfig struct {
	Path string `ini:"path"`
}

type LogConfig struct {
	Verbose bool `ini:"verbose"`
}

// Config is the on-disk configuration, every field is optional
type Config struct {
	Server  ServerConfig  `ini:"server"`
	Display DisplayConfig `ini:"display"`
	Adb     AdbConfig     `ini:"adb"`
	Log     LogConfig     `ini:"log"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Listen: DefaultListenAddress},
		Display: DisplayConfig{DefaultHz: DefaultFrameRate, Strategy: DefaultStrategy},
		Adb:     AdbConfig{Path: DefaultAdbPath},
	}
}

// Path returns the config file location, it may not exist
func Path() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "displaycli", "config.ini")
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := file.MapTo(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Display.DefaultHz <= 0 {
		return fmt.Errorf("display.default_hz must be positive, got %v", c.Display.DefaultHz)
	}

	switch c.Display.Strategy {
	case "":
		c.Display.Strategy = DefaultStrategy
	case "auto", "legacy", "modern":
	default:
		return fmt.Errorf("display.strategy must be auto, legacy or modern, got %q", c.Display.Strategy)
	}

	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListenAddress
	}

	if c.Adb.Path == "" {
		c.Adb.Path = DefaultAdbPath
	}

	return nil
}
