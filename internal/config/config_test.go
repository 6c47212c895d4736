package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DefaultProfile)
	assert.Equal(t, "", cfg.DefaultRegion)
	assert.Equal(t, "", cfg.DefaultDataDir)
}

func TestLoadFrom_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("default_profile: audit\ndefault_region: eu-west-1\ndefault_data_dir: /tmp/orgmap\n"), 0644)
	require.NoError(t, err)

	cfg, err := loadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "audit", cfg.DefaultProfile)
	assert.Equal(t, "eu-west-1", cfg.DefaultRegion)
	assert.Equal(t, "/tmp/orgmap", cfg.DefaultDataDir)
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_profile: [unclosed"), 0644))

	_, err := loadFrom(path)
	assert.Error(t, err)
}

func TestMerge_CLIFlagsTakePrecedence(t *testing.T) {
	cfg := &Config{DefaultProfile: "config-profile", DefaultRegion: "us-east-1", DefaultDataDir: "/data"}

	// CLI flags override
	p, r, d := cfg.Merge("cli-profile", "ap-south-1", "./snapshots")
	assert.Equal(t, "cli-profile", p)
	assert.Equal(t, "ap-south-1", r)
	assert.Equal(t, "./snapshots", d)

	// Empty flags fall back to config
	p, r, d = cfg.Merge("", "", "")
	assert.Equal(t, "config-profile", p)
	assert.Equal(t, "us-east-1", r)
	assert.Equal(t, "/data", d)

	// Partial override
	p, r, _ = cfg.Merge("other", "", "")
	assert.Equal(t, "other", p)
	assert.Equal(t, "us-east-1", r)
}

func TestMerge_DataDirDefault(t *testing.T) {
	cfg := &Config{}
	_, _, d := cfg.Merge("", "", "")
	assert.Equal(t, DefaultDataDir, d)
}
