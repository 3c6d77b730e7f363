// Package cli implements the dupesweep command-line interface.
// Built with cobra. Operational rules:
// - All destructive actions require a confirmation prompt
// - Dry-run never mutates anything except the report file
// - Per-file errors never abort a run
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dupesweep/dupesweep/internal/config"
)

var (
	// Global flags
	verbosity  int
	sidecarExt string
	ledgerPath string

	// Sweep flags
	dryRun             bool
	outputPath         string
	progress           bool
	jdupesPath         string
	jdupesHashDB       string
	jdupesExtraArgs    string
	noExcludeSidecar   bool
	noMergeExisting    bool
	noDeleteDupSidecar bool
	assumeYes          bool
	noLedger           bool
)

// rootCmd is the base command; invoking it with directories runs the
// deduplication sweep itself.
var rootCmd = &cobra.Command{
	Use:   "dupesweep [flags] <directory>...",
	Short: "Deduplicate directories with jdupes, recording deletions in sidecar files",
	Long: `dupesweep is a convenience wrapper around the external jdupes tool.

It runs jdupes over the given directories (order-significant: the
survivor of each duplicate set is picked from the first-listed
directory), deletes the non-surviving copies, and appends each deleted
path to a .dupes sidecar file next to the survivor. Sidecar files of
deleted duplicates are merged into the survivor's sidecar so no history
is lost.

Duplicate detection, hashing and comparison are fully delegated to
jdupes; dupesweep only does the bookkeeping.

Use --dry-run to write a report of the planned actions instead of
performing them.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd.Context(), args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v", "Increase output verbosity (repeatable)")
	pf.StringVar(&sidecarExt, "sidecar-ext", "", "Sidecar file extension (default \""+config.DefaultSidecarExt+"\")")
	pf.StringVar(&ledgerPath, "ledger", "", "Ledger database path (default ~/.dupesweep/ledger.db)")

	f := rootCmd.Flags()
	f.BoolVarP(&dryRun, "dry-run", "n", false, "Report planned actions without deleting files or writing sidecars")
	f.StringVarP(&outputPath, "output", "o", config.DefaultReportPath, "Output file for the dry run report")
	f.BoolVar(&progress, "progress", false, "Display jdupes progress information")
	f.StringVar(&jdupesPath, "jdupes-path", "", "Path to the jdupes binary (default \""+config.DefaultJdupesPath+"\")")
	f.StringVar(&jdupesHashDB, "jdupes-hashdb", "", "Hash database file to be used by jdupes")
	f.StringVar(&jdupesExtraArgs, "jdupes-extra-args", "", "Extra command-line arguments passed to jdupes")
	f.BoolVar(&noExcludeSidecar, "no-exclude-sidecar", false, "Do not exclude sidecar files from jdupes processing")
	f.BoolVar(&noMergeExisting, "no-merge-existing-sidecars", false, "Do not merge existing sidecar files of deletion candidates")
	f.BoolVar(&noDeleteDupSidecar, "no-delete-duplicate-sidecar", false, "Do not delete sidecar files of duplicates after merging")
	f.BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	f.BoolVar(&noLedger, "no-ledger", false, "Do not record the run in the ledger")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(sidecarsCmd)
}
