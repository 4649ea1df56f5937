package cert

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the immutable parameter bundle shared by every pipeline stage.
// One instance describes one certificate run.
type Config struct {
	// ModulusPower M fixes the working modulus 2^M for projected residues.
	ModulusPower int `yaml:"modulus_power"`

	// MaxWindowLength bounds the pattern length j.
	MaxWindowLength int `yaml:"max_window_length"`

	// MaxValuation bounds each per-step 2-adic valuation s_t.
	MaxValuation int `yaml:"max_valuation"`

	// DeltaK is the slack above the minimum cumulative valuation explored
	// for each pattern length.
	DeltaK int `yaml:"delta_k"`

	// FunnelDepth bounds the accelerated-step search for non-window residues.
	FunnelDepth int `yaml:"funnel_depth"`

	// ArtifactsDir is the default directory for all output artifacts.
	ArtifactsDir string `yaml:"artifacts_dir"`
}

// DefaultConfig returns the reference parameterization.
func DefaultConfig() Config {
	return Config{
		ModulusPower:    18,
		MaxWindowLength: 10,
		MaxValuation:    8,
		DeltaK:          3,
		FunnelDepth:     16,
		ArtifactsDir:    "artifacts",
	}
}

// LoadConfig reads a YAML parameter file over the defaults. Fields absent
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Kind: KindMissingInput, Message: fmt.Sprintf("config file %s: %v", path, err)}
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate bounds-checks every knob. ModulusPower is capped at 61 so that
// 3x+1 on a residue below 2^M cannot overflow uint64.
func (c Config) Validate() error {
	if c.ModulusPower < 2 || c.ModulusPower > 61 {
		return fmt.Errorf("modulus_power must be in [2, 61], got %d", c.ModulusPower)
	}
	if c.MaxWindowLength < 1 {
		return fmt.Errorf("max_window_length must be at least 1, got %d", c.MaxWindowLength)
	}
	if c.MaxValuation < 1 {
		return fmt.Errorf("max_valuation must be at least 1, got %d", c.MaxValuation)
	}
	if c.DeltaK < 0 {
		return fmt.Errorf("delta_k must be non-negative, got %d", c.DeltaK)
	}
	if c.FunnelDepth < 1 {
		return fmt.Errorf("funnel_depth must be at least 1, got %d", c.FunnelDepth)
	}
	if c.ArtifactsDir == "" {
		return fmt.Errorf("artifacts_dir must not be empty")
	}
	return nil
}

// Modulus returns the derived working modulus 2^ModulusPower.
func (c Config) Modulus() uint64 {
	return 1 << uint(c.ModulusPower)
}

// WindowsCSV returns the default window table path.
func (c Config) WindowsCSV() string {
	return filepath.Join(c.ArtifactsDir, "windows.csv")
}

// FunnelsCSV returns the default funnel table path.
func (c Config) FunnelsCSV() string {
	return filepath.Join(c.ArtifactsDir, "funnels.csv")
}

// SummaryJSON returns the default summary artifact path.
func (c Config) SummaryJSON() string {
	return filepath.Join(c.ArtifactsDir, "summary.json")
}

// FiniteCheckLog returns the default finite-range checker log path.
func (c Config) FiniteCheckLog() string {
	return filepath.Join(c.ArtifactsDir, "finite-check.log")
}

// WithArtifactsDir returns a copy with the artifacts directory overridden.
func (c Config) WithArtifactsDir(dir string) Config {
	if dir == "" {
		return c
	}
	c.ArtifactsDir = dir
	return c
}
