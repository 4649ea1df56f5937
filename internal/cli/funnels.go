package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/descent/internal/funnels"
)

// FunnelsOptions holds flags for the funnels command.
type FunnelsOptions struct {
	*RootOptions
	certFlags
	WindowsCSV string
	Output     string
}

// NewFunnelsCommand creates the funnels command.
func NewFunnelsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FunnelsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "funnels",
		Short: "Generate the funnel table",
		Long: `For every odd residue at the working modulus, iterate the accelerated
map until it lands in the window set, recording the minimal step count.

Consumes the window table; outputs the funnel table (funnels.csv) and a
length histogram sidecar (funnels.hist.json). Exhausting the depth bound
on any residue aborts the run: the certificate parameters are insufficient.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunnels(opts, cmd)
		},
	}

	opts.addConfigFlag(cmd)
	opts.addModulusFlag(cmd)
	opts.addFunnelDepthFlag(cmd)
	opts.addArtifactsDirFlag(cmd)
	cmd.Flags().StringVar(&opts.WindowsCSV, "windows-csv", "", "window table path (default <artifacts-dir>/windows.csv)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "funnel table path (default <artifacts-dir>/funnels.csv)")

	return cmd
}

func runFunnels(opts *FunnelsOptions, cmd *cobra.Command) error {
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
	output := opts.Output
	if output == "" {
		output = cfg.FunnelsCSV()
	}

	windowSet, err := funnels.LoadWindowResidues(windowsCSV, cfg.Modulus())
	if err != nil {
		return stageError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d window residue(s) from %s", len(windowSet), windowsCSV)

	records, histogram, err := funnels.Search(cfg, windowSet, opts.Logger)
	if err != nil {
		return stageError(formatter, err)
	}
	if err := funnels.WriteCSV(records, output, cfg.Modulus()); err != nil {
		return stageError(formatter, err)
	}
	histPath := funnels.HistogramPath(output)
	if err := funnels.WriteHistogram(histogram, histPath); err != nil {
		return stageError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(histogram)
	}
	fmt.Fprintf(formatter.Writer, "✓ Computed funnel lengths for %d odd residue(s)\n", len(records))
	fmt.Fprintf(formatter.Writer, "Wrote %s and %s\n", output, histPath)
	return nil
}
