package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dupesweep/dupesweep/internal/config"
	"github.com/dupesweep/dupesweep/internal/ledger"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past deduplication runs from the ledger",
	Long: `Show past deduplication runs recorded in the ledger database.

With --verbose, every deleted duplicate of each run is listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd.Context())
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of runs to show")
}

func runHistory(ctx context.Context) error {
	defaults, err := config.LoadDefaults(config.DefaultsPath())
	if err != nil {
		return err
	}
	path := firstNonEmpty(ledgerPath, defaults.LedgerPath, config.DefaultLedgerPath())

	led, err := ledger.Open(path, os.Getenv("DUPESWEEP_PASSPHRASE"))
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer led.Close()
	if err := led.Initialize(ctx); err != nil {
		return err
	}

	runs, err := led.Runs(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("Runs (%d):\n", len(runs))
	fmt.Println("Run      Started           Groups  Deleted  Failures  Reclaimed")
	fmt.Println("─────────────────────────────────────────────────────────────────")
	for _, r := range runs {
		fmt.Printf("%-8s %-17s %-7d %-8d %-9d %s\n",
			r.RunID[:8],
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Groups,
			r.FilesDeleted,
			r.Failures,
			formatBytes(r.BytesReclaimed))

		if verbosity > 0 {
			dels, err := led.Deletions(ctx, r.RunID)
			if err != nil {
				return err
			}
			for _, d := range dels {
				fmt.Printf("  %s (kept %s)\n", d.DeletedPath, d.SurvivorPath)
			}
		}
	}

	return nil
}
