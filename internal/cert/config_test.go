package cert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 18, cfg.ModulusPower)
	assert.Equal(t, 10, cfg.MaxWindowLength)
	assert.Equal(t, 8, cfg.MaxValuation)
	assert.Equal(t, 3, cfg.DeltaK)
	assert.Equal(t, 16, cfg.FunnelDepth)
	assert.Equal(t, "artifacts", cfg.ArtifactsDir)
	require.NoError(t, cfg.Validate())
}

func TestConfigDerived(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, uint64(1<<18), cfg.Modulus())
	assert.Equal(t, filepath.Join("artifacts", "windows.csv"), cfg.WindowsCSV())
	assert.Equal(t, filepath.Join("artifacts", "funnels.csv"), cfg.FunnelsCSV())
	assert.Equal(t, filepath.Join("artifacts", "summary.json"), cfg.SummaryJSON())
	assert.Equal(t, filepath.Join("artifacts", "finite-check.log"), cfg.FiniteCheckLog())
}

func TestConfigWithArtifactsDir(t *testing.T) {
	cfg := DefaultConfig()
	moved := cfg.WithArtifactsDir("out")
	assert.Equal(t, "out", moved.ArtifactsDir)
	assert.Equal(t, "artifacts", cfg.ArtifactsDir, "original must be unchanged")
	assert.Equal(t, cfg, cfg.WithArtifactsDir(""))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"modulus power too small", func(c *Config) { c.ModulusPower = 1 }},
		{"modulus power too large", func(c *Config) { c.ModulusPower = 62 }},
		{"zero max window length", func(c *Config) { c.MaxWindowLength = 0 }},
		{"zero max valuation", func(c *Config) { c.MaxValuation = 0 }},
		{"negative delta k", func(c *Config) { c.DeltaK = -1 }},
		{"zero funnel depth", func(c *Config) { c.FunnelDepth = 0 }},
		{"empty artifacts dir", func(c *Config) { c.ArtifactsDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	content := "modulus_power: 5\nmax_window_length: 2\nmax_valuation: 3\ndelta_k: 1\nfunnel_depth: 12\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ModulusPower)
	assert.Equal(t, 2, cfg.MaxWindowLength)
	assert.Equal(t, 3, cfg.MaxValuation)
	assert.Equal(t, 1, cfg.DeltaK)
	assert.Equal(t, 12, cfg.FunnelDepth)
	// Unset fields keep defaults.
	assert.Equal(t, "artifacts", cfg.ArtifactsDir)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, KindMissingInput, KindOf(err))
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modulus_power: 99\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
