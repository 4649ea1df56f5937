package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/descent/internal/cert"
)

// certFlags carries the per-stage certificate parameter flags. Each command
// registers the subset it needs; resolveConfig only applies flags the user
// actually set, so a --config file and explicit flags compose.
type certFlags struct {
	ConfigFile   string
	ModulusPower int
	MaxJ         int
	SMax         int
	DeltaK       int
	FunnelDepth  int
	ArtifactsDir string
}

func (f *certFlags) addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ConfigFile, "config", "", "YAML parameter file (flags override)")
}

func (f *certFlags) addModulusFlag(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.ModulusPower, "modulus-power", 18, "working modulus power M (modulus 2^M)")
}

func (f *certFlags) addStructuralFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.MaxJ, "max-j", 10, "maximum window pattern length")
	cmd.Flags().IntVar(&f.SMax, "s-max", 8, "maximum per-step 2-adic valuation")
	cmd.Flags().IntVar(&f.DeltaK, "delta-k", 3, "slack above the minimum cumulative valuation")
}

func (f *certFlags) addFunnelDepthFlag(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.FunnelDepth, "funnel-depth", 16, "maximum accelerated steps in the funnel search")
}

func (f *certFlags) addArtifactsDirFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ArtifactsDir, "artifacts-dir", "artifacts", "directory for output artifacts")
}

// resolveConfig builds the stage configuration: defaults, then the optional
// YAML file, then any explicitly set flags.
func resolveConfig(cmd *cobra.Command, f *certFlags) (cert.Config, error) {
	cfg := cert.DefaultConfig()
	if f.ConfigFile != "" {
		loaded, err := cert.LoadConfig(f.ConfigFile)
		if err != nil {
			return cert.Config{}, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("modulus-power") {
		cfg.ModulusPower = f.ModulusPower
	}
	if flags.Changed("max-j") {
		cfg.MaxWindowLength = f.MaxJ
	}
	if flags.Changed("s-max") {
		cfg.MaxValuation = f.SMax
	}
	if flags.Changed("delta-k") {
		cfg.DeltaK = f.DeltaK
	}
	if flags.Changed("funnel-depth") {
		cfg.FunnelDepth = f.FunnelDepth
	}
	if flags.Changed("artifacts-dir") {
		cfg.ArtifactsDir = f.ArtifactsDir
	}
	if err := cfg.Validate(); err != nil {
		return cert.Config{}, err
	}
	return cfg, nil
}

// stageError reports a pipeline error through the formatter and maps it to
// the right exit code: missing inputs are command errors, everything else
// is a certificate failure.
func stageError(formatter *OutputFormatter, err error) error {
	code := string(cert.KindOf(err))
	exit := ExitFailure
	switch cert.KindOf(err) {
	case cert.KindMissingInput:
		exit = ExitCommandError
	case "":
		code = "PIPELINE_ERROR"
		exit = ExitCommandError
	}
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(exit, err.Error(), err)
}
