package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/descent/internal/finite"
	"github.com/roach88/descent/internal/funnels"
	"github.com/roach88/descent/internal/validator"
	"github.com/roach88/descent/internal/windows"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	certFlags
	FiniteCheck   bool
	VerifiedBound int64
}

// NewRunCommand creates the run command, which chains the whole pipeline
// against a single artifacts directory.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline: windows, funnels, validate",
		Long: `Run the certificate stages in dependency order against one artifacts
directory: window generation, funnel search, then independent validation.
Data flows only through the flat artifacts; the run aborts at the first
stage failure and certifies nothing. With --finite-check, the external
finite-range checker runs after validation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(opts, cmd)
		},
	}

	opts.addConfigFlag(cmd)
	opts.addModulusFlag(cmd)
	opts.addStructuralFlags(cmd)
	opts.addFunnelDepthFlag(cmd)
	opts.addArtifactsDirFlag(cmd)
	cmd.Flags().BoolVar(&opts.FiniteCheck, "finite-check", false, "run the finite-range checker after validation")
	cmd.Flags().Int64Var(&opts.VerifiedBound, "verified-bound", 0, "externally verified bound for the finite-range checker")

	return cmd
}

func runPipeline(opts *RunOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := resolveConfig(cmd, &opts.certFlags)
	if err != nil {
		return stageError(formatter, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run", uuid.NewString()))

	logger.Info("pipeline start",
		zap.Int("modulus_power", cfg.ModulusPower),
		zap.String("artifacts_dir", cfg.ArtifactsDir))

	records, stats := windows.Generate(cfg, logger)
	if err := windows.WriteCSV(records, cfg.WindowsCSV(), cfg.Modulus()); err != nil {
		return stageError(formatter, err)
	}
	if err := windows.WriteStats(stats, windows.StatsPath(cfg.WindowsCSV())); err != nil {
		return stageError(formatter, err)
	}
	formatter.VerboseLog("windows: %d row(s), coverage %.2f%%", stats.WindowRows, stats.CoverageFraction*100)

	windowSet, err := funnels.LoadWindowResidues(cfg.WindowsCSV(), cfg.Modulus())
	if err != nil {
		return stageError(formatter, err)
	}
	funnelRecords, histogram, err := funnels.Search(cfg, windowSet, logger)
	if err != nil {
		return stageError(formatter, err)
	}
	if err := funnels.WriteCSV(funnelRecords, cfg.FunnelsCSV(), cfg.Modulus()); err != nil {
		return stageError(formatter, err)
	}
	if err := funnels.WriteHistogram(histogram, funnels.HistogramPath(cfg.FunnelsCSV())); err != nil {
		return stageError(formatter, err)
	}
	formatter.VerboseLog("funnels: %d row(s)", len(funnelRecords))

	windowCheck, err := validator.ValidateWindows(cfg.WindowsCSV(), cfg.ModulusPower)
	if err != nil {
		return stageError(formatter, err)
	}
	funnelCheck, err := validator.ValidateFunnels(cfg.FunnelsCSV(), windowCheck.Residues, cfg.Modulus())
	if err != nil {
		return stageError(formatter, err)
	}
	summary, err := validator.Summarize(cfg.WindowsCSV(), cfg.FunnelsCSV(), windowCheck, funnelCheck, cfg.Modulus())
	if err != nil {
		return stageError(formatter, err)
	}
	if err := validator.WriteSummary(summary, cfg.SummaryJSON()); err != nil {
		return stageError(formatter, err)
	}
	logger.Info("pipeline validated",
		zap.Int("window_rows", summary.WindowRows),
		zap.Int("funnel_rows", summary.FunnelRows),
		zap.String("n0_star", summary.N0Star.String()))

	if opts.FiniteCheck {
		runOpts := finite.Options{
			SummaryPath:   cfg.SummaryJSON(),
			LogPath:       cfg.FiniteCheckLog(),
			VerifiedBound: opts.VerifiedBound,
		}
		if err := finite.Run(runOpts, logger); err != nil {
			return stageError(formatter, err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ Pipeline complete: %d window row(s), %d funnel row(s)\n",
		summary.WindowRows, summary.FunnelRows)
	fmt.Fprintf(formatter.Writer, "  j_max=%d  L=%d  J*=%d  N0*=%s\n",
		summary.JMax, summary.L, summary.JStar, summary.N0Star)
	fmt.Fprintf(formatter.Writer, "Artifacts in %s\n", cfg.ArtifactsDir)
	return nil
}
