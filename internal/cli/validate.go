package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/descent/internal/validator"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	certFlags
	WindowsCSV string
	FunnelsCSV string
	Summary    string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Cross-validate both tables and emit the summary",
		Long: `Independently re-derive every algebraic claim in the window table and
replay every funnel trajectory, trusting nothing from the generators.

On success, emits summary.json with content hashes of both tables and the
derived finite-verification bound N0*. Any mismatch aborts with the
offending row; a certificate is valid only as a whole.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	opts.addConfigFlag(cmd)
	opts.addModulusFlag(cmd)
	opts.addArtifactsDirFlag(cmd)
	cmd.Flags().StringVar(&opts.WindowsCSV, "windows-csv", "", "window table path (default <artifacts-dir>/windows.csv)")
	cmd.Flags().StringVar(&opts.FunnelsCSV, "funnels-csv", "", "funnel table path (default <artifacts-dir>/funnels.csv)")
	cmd.Flags().StringVar(&opts.Summary, "summary", "", "summary path (default <artifacts-dir>/summary.json)")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
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

	windowsCSV := opts.WindowsCSV
	if windowsCSV == "" {
		windowsCSV = cfg.WindowsCSV()
	}
	funnelsCSV := opts.FunnelsCSV
	if funnelsCSV == "" {
		funnelsCSV = cfg.FunnelsCSV()
	}
	summaryPath := opts.Summary
	if summaryPath == "" {
		summaryPath = cfg.SummaryJSON()
	}

	windowCheck, err := validator.ValidateWindows(windowsCSV, cfg.ModulusPower)
	if err != nil {
		return stageError(formatter, err)
	}
	formatter.VerboseLog("Window table valid: %d row(s), %d distinct residue(s)", windowCheck.Rows, len(windowCheck.Residues))

	funnelCheck, err := validator.ValidateFunnels(funnelsCSV, windowCheck.Residues, cfg.Modulus())
	if err != nil {
		return stageError(formatter, err)
	}
	formatter.VerboseLog("Funnel table valid: %d row(s), max length %d", funnelCheck.Rows, funnelCheck.MaxLength)

	summary, err := validator.Summarize(windowsCSV, funnelsCSV, windowCheck, funnelCheck, cfg.Modulus())
	if err != nil {
		return stageError(formatter, err)
	}
	if err := validator.WriteSummary(summary, summaryPath); err != nil {
		return stageError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ Certificate valid: %d window row(s), %d funnel row(s)\n",
		summary.WindowRows, summary.FunnelRows)
	fmt.Fprintf(formatter.Writer, "  j_max=%d  L=%d  J*=%d  max threshold=%s  N0*=%s\n",
		summary.JMax, summary.L, summary.JStar, summary.MaxWindowThreshold, summary.N0Star)
	fmt.Fprintf(formatter.Writer, "Wrote %s\n", summaryPath)
	return nil
}
