package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/descent/internal/windows"
)

// WindowsOptions holds flags for the windows command.
type WindowsOptions struct {
	*RootOptions
	certFlags
	Output string
}

// NewWindowsCommand creates the windows command.
func NewWindowsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WindowsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "windows",
		Short: "Generate the window table",
		Long: `Enumerate bounded parity patterns, solve their congruence systems, and
emit every valid descending window projected to the working modulus.

Outputs the window table (windows.csv, sorted by residue) and a coverage
statistics sidecar (windows.stats.json).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindows(opts, cmd)
		},
	}

	opts.addConfigFlag(cmd)
	opts.addModulusFlag(cmd)
	opts.addStructuralFlags(cmd)
	opts.addArtifactsDirFlag(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "window table path (default <artifacts-dir>/windows.csv)")

	return cmd
}

func runWindows(opts *WindowsOptions, cmd *cobra.Command) error {
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

	output := opts.Output
	if output == "" {
		output = cfg.WindowsCSV()
	}
	formatter.VerboseLog("Enumerating patterns up to j=%d (modulus 2^%d)", cfg.MaxWindowLength, cfg.ModulusPower)

	records, stats := windows.Generate(cfg, opts.Logger)
	if err := windows.WriteCSV(records, output, cfg.Modulus()); err != nil {
		return stageError(formatter, err)
	}
	statsPath := windows.StatsPath(output)
	if err := windows.WriteStats(stats, statsPath); err != nil {
		return stageError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(stats)
	}
	fmt.Fprintf(formatter.Writer, "✓ Generated %d window row(s) covering %.2f%% of odd residues\n",
		stats.WindowRows, stats.CoverageFraction*100)
	fmt.Fprintf(formatter.Writer, "Wrote %s and %s\n", output, statsPath)
	return nil
}
