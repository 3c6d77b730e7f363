package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/dupesweep/dupesweep/internal/config"
	"github.com/dupesweep/dupesweep/internal/core"
	"github.com/dupesweep/dupesweep/internal/jdupes"
	"github.com/dupesweep/dupesweep/internal/ledger"
	"github.com/dupesweep/dupesweep/internal/logger"
	"github.com/dupesweep/dupesweep/internal/model"
	"github.com/dupesweep/dupesweep/internal/report"
	"github.com/dupesweep/dupesweep/internal/sidecar"
)

// confirmFn asks the user a yes/no question. Injectable for tests.
var confirmFn = promptYesNo

// promptYesNo prompts the user for confirmation on stdin.
func promptYesNo(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// buildConfig resolves the immutable run configuration from flags
// merged over the optional TOML defaults file.
func buildConfig(dirs []string) (*config.Config, error) {
	defaults, err := config.LoadDefaults(config.DefaultsPath())
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Directories:      append([]string(nil), dirs...),
		DryRun:           dryRun,
		ReportPath:       outputPath,
		Verbosity:        verbosity,
		Progress:         progress,
		JdupesPath:       firstNonEmpty(jdupesPath, defaults.JdupesPath),
		HashDB:           firstNonEmpty(jdupesHashDB, defaults.JdupesHashDB),
		SidecarExt:       firstNonEmpty(sidecarExt, defaults.SidecarExt),
		ExcludeSidecars:  !noExcludeSidecar,
		MergeExisting:    !noMergeExisting,
		DeleteDupSidecar: !noDeleteDupSidecar,
		AssumeYes:        assumeYes,
		LedgerPath:       firstNonEmpty(ledgerPath, defaults.LedgerPath),
		NoLedger:         noLedger || defaults.NoLedger,
	}

	if jdupesExtraArgs != "" {
		extra, err := config.SplitArgs(jdupesExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("invalid --jdupes-extra-args: %w", err)
		}
		cfg.ExtraArgs = extra
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// runSweep is the main orchestration sequence: validate configuration,
// confirm, invoke jdupes, stream its output through the group parser,
// and feed each group to the processor.
func runSweep(ctx context.Context, dirs []string) error {
	cfg, err := buildConfig(dirs)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.Verbosity)

	runner := &jdupes.Runner{
		Path:      cfg.JdupesPath,
		HashDB:    cfg.HashDB,
		ExtraArgs: cfg.ExtraArgs,
	}
	if cfg.ExcludeSidecars {
		runner.ExcludeExt = cfg.SidecarExtNoDot()
	}
	// Resolve the binary before prompting: a missing jdupes is a
	// configuration error, not something to confirm.
	if _, err := runner.Resolve(); err != nil {
		return err
	}

	if cfg.DryRun {
		fmt.Println("Dry run mode: no files will be deleted or modified.")
	} else {
		fmt.Println("Normal mode: files may be deleted and sidecar files created.")
		if !cfg.AssumeYes && !confirmFn("Do you want to proceed?") {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	var rep *report.Writer
	var led *ledger.Ledger
	var runID string

	if cfg.DryRun {
		rep, err = report.NewWriter(cfg.ReportPath)
		if err != nil {
			return err
		}
	} else if !cfg.NoLedger {
		led, runID = openLedger(ctx, cfg)
		if led != nil {
			defer led.Close()
		}
	}

	var progressTo io.Writer
	if cfg.Progress {
		progressTo = os.Stderr
	}
	proc, err := runner.Start(ctx, cfg.Directories, progressTo)
	if err != nil {
		if rep != nil {
			rep.Close()
		}
		return err
	}
	logger.Debug("running: %s", proc.String())

	processor := core.NewProcessor(cfg, sidecar.New(cfg.SidecarExt), rep, led, runID)

	gs := jdupes.NewGroupScanner(proc.Stdout)
	gs.SetStatusFunc(func(line string) {
		if cfg.Progress {
			fmt.Fprintln(os.Stderr, line)
		} else {
			logger.Debug("jdupes: %s", line)
		}
	})
	for gs.Scan() {
		processor.ProcessGroup(ctx, gs.Group())
	}
	if err := gs.Err(); err != nil {
		proc.Wait()
		return fmt.Errorf("failed to read jdupes output: %w", err)
	}
	if err := proc.Wait(); err != nil {
		return err
	}

	sum := processor.Summary()
	if led != nil {
		if err := led.FinishRun(ctx, runID, sum.Groups, sum.Duplicates, sum.FilesDeleted, sum.Failures, sum.BytesReclaimed); err != nil {
			logger.Warn("ledger: %v", err)
		}
	}
	if rep != nil {
		if err := rep.Close(); err != nil {
			return err
		}
	}

	printSummary(cfg, sum)
	return nil
}

// openLedger opens the run ledger and begins a run record. Ledger
// problems are warnings: bookkeeping must never block the run.
func openLedger(ctx context.Context, cfg *config.Config) (*ledger.Ledger, string) {
	led, err := ledger.Open(cfg.LedgerPath, os.Getenv("DUPESWEEP_PASSPHRASE"))
	if err != nil {
		logger.Warn("ledger unavailable: %v", err)
		return nil, ""
	}
	if err := led.Initialize(ctx); err != nil {
		logger.Warn("ledger unavailable: %v", err)
		led.Close()
		return nil, ""
	}
	runID, err := led.BeginRun(ctx, model.RunModeNormal, cfg.Directories)
	if err != nil {
		logger.Warn("ledger unavailable: %v", err)
		led.Close()
		return nil, ""
	}
	return led, runID
}

func printSummary(cfg *config.Config, sum core.Summary) {
	if sum.Groups == 0 {
		fmt.Println("No duplicates found.")
		return
	}

	if cfg.DryRun {
		fmt.Printf("%s %d duplicate groups, %d candidates. Report written to %s\n",
			color.GreenString("✓"), sum.Groups, sum.Duplicates, cfg.ReportPath)
		return
	}

	fmt.Printf("%s %d duplicate groups processed: %d files deleted, %s reclaimed\n",
		color.GreenString("✓"), sum.Groups, sum.FilesDeleted, formatBytes(sum.BytesReclaimed))
	if sum.Failures > 0 {
		fmt.Printf("%s %d per-file errors (see log output above)\n",
			color.YellowString("⚠"), sum.Failures)
	}
}

// formatBytes formats bytes as human-readable.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
