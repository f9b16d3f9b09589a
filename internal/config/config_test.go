package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// No config.yaml in the test working directory.
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/processed/heart.csv", cfg.ProcessedDataPath)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 0.2, cfg.TestSize)
	assert.Equal(t, 5, cfg.CVFolds)
	assert.Equal(t, 3, cfg.QuickCVFolds)
	assert.Equal(t, "heart-disease-uci", cfg.ExperimentName)
	assert.Equal(t, "0.0.0.0:8000", cfg.ListenAddr())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"seed: 7\nserver:\n  port: 9100\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 9100, cfg.Server.Port)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0.2, cfg.TestSize)
}

func TestLoadExplicitMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o644))

	t.Setenv("HEART_SERVER__PORT", "9200")
	t.Setenv("HEART_EXPERIMENT_NAME", "heart-disease-staging")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "heart-disease-staging", cfg.ExperimentName)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"test size too large", func(c *Config) { c.TestSize = 1.0 }},
		{"test size zero", func(c *Config) { c.TestSize = 0 }},
		{"single fold", func(c *Config) { c.CVFolds = 1 }},
		{"single quick fold", func(c *Config) { c.QuickCVFolds = 1 }},
		{"empty experiment", func(c *Config) { c.ExperimentName = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFoldsSwitchesOnQuick(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Folds(false))
	assert.Equal(t, 3, cfg.Folds(true))
}
