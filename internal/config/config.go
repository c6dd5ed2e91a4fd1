// Package config holds the kiosk runtime configuration, read from an
// optional YAML file and overridden by flags in main.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config wires runtime options into the controller.
type Config struct {
	ServerURL    string        `yaml:"server_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	AltScreen    bool          `yaml:"alt_screen"`
	ArchiveDir   string        `yaml:"archive_dir"`
}

// Default returns the configuration used when no file and no flags are given.
func Default() Config {
	return Config{
		ServerURL:    "http://localhost:8000",
		PollInterval: 10 * time.Second,
		AltScreen:    true,
		ArchiveDir:   "collages",
	}
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.ServerURL == "" {
		c.ServerURL = def.ServerURL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.ArchiveDir == "" {
		c.ArchiveDir = def.ArchiveDir
	}
}

// Load reads a YAML config file and fills in defaults. A missing file is not
// an error; it yields the defaults so the kiosk boots with zero setup.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	cfg := Config{AltScreen: true}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}
