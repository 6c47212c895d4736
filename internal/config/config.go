package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDataDir is where collect writes and explore reads when nothing
// else is configured.
const DefaultDataDir = "orgmap-data"

// Config holds optional defaults loaded from ~/.config/orgmap/config.yaml.
type Config struct {
	DefaultProfile string `yaml:"default_profile"`
	DefaultRegion  string `yaml:"default_region"`
	DefaultDataDir string `yaml:"default_data_dir"`
}

// Load reads the config file. Returns zero-value Config if the file doesn't exist.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return &Config{}, nil
	}
	return loadFrom(filepath.Join(home, ".config", "orgmap", "config.yaml"))
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Merge applies CLI flag overrides. Flags take precedence over config
// defaults; the data dir falls back to DefaultDataDir when neither is set.
func (c *Config) Merge(profile, region, dataDir string) (string, string, string) {
	p := c.DefaultProfile
	if profile != "" {
		p = profile
	}
	r := c.DefaultRegion
	if region != "" {
		r = region
	}
	d := c.DefaultDataDir
	if dataDir != "" {
		d = dataDir
	}
	if d == "" {
		d = DefaultDataDir
	}
	return p, r, d
}
