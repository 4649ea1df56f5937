package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/descent/internal/finite"
)

// FiniteCheckOptions holds flags for the finite-check command.
type FiniteCheckOptions struct {
	*RootOptions
	certFlags
	Summary       string
	Log           string
	VerifiedBound int64
	MaxSteps      int
}

// NewFiniteCheckCommand creates the finite-check command.
func NewFiniteCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FiniteCheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "finite-check",
		Short: "Brute-force verification up to the summary's N0* bound",
		Long: `Consume N0* from summary.json and either record that an externally
verified bound already covers it, or simulate the plain Collatz map for
every n <= N0*. Writes a plain-text log artifact. This stage carries no
certificate logic; it only needs the final numeric bound.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiniteCheck(opts, cmd)
		},
	}

	opts.addConfigFlag(cmd)
	opts.addArtifactsDirFlag(cmd)
	cmd.Flags().StringVar(&opts.Summary, "summary", "", "summary path (default <artifacts-dir>/summary.json)")
	cmd.Flags().StringVar(&opts.Log, "log", "", "log path (default <artifacts-dir>/finite-check.log)")
	cmd.Flags().Int64Var(&opts.VerifiedBound, "verified-bound", 0, "externally verified bound; covering N0* skips simulation")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", finite.DefaultMaxSteps, "per-trajectory step cap during simulation")

	return cmd
}

func runFiniteCheck(opts *FiniteCheckOptions, cmd *cobra.Command) error {
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

	summaryPath := opts.Summary
	if summaryPath == "" {
		summaryPath = cfg.SummaryJSON()
	}
	logPath := opts.Log
	if logPath == "" {
		logPath = cfg.FiniteCheckLog()
	}

	runOpts := finite.Options{
		SummaryPath:   summaryPath,
		LogPath:       logPath,
		VerifiedBound: opts.VerifiedBound,
		MaxSteps:      opts.MaxSteps,
	}
	if err := finite.Run(runOpts, opts.Logger); err != nil {
		return stageError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"log": logPath})
	}
	fmt.Fprintf(formatter.Writer, "✓ Finite-range check complete\n")
	fmt.Fprintf(formatter.Writer, "Wrote %s\n", logPath)
	return nil
}
