package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dupesweep/dupesweep/internal/config"
	"github.com/dupesweep/dupesweep/internal/logger"
	"github.com/dupesweep/dupesweep/internal/sidecar"
)

var sidecarsCmd = &cobra.Command{
	Use:   "sidecars <directory>",
	Short: "List sidecar files under a directory",
	Long: `List sidecar files under a directory, with their entry counts.

A sidecar is reported as orphaned when the file it accompanies no
longer exists. This is a READ-ONLY command with no side effects.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSidecars(args[0])
	},
}

func runSidecars(dir string) error {
	logger.SetLevel(verbosity)

	defaults, err := config.LoadDefaults(config.DefaultsPath())
	if err != nil {
		return err
	}
	ext := firstNonEmpty(sidecarExt, defaults.SidecarExt, config.DefaultSidecarExt)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid directory %s: %w", dir, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return fmt.Errorf("directory does not exist: %s", dir)
	}

	sc := sidecar.New(ext)
	var sidecars, entries, orphans int

	fmt.Printf("Sidecar files under %s:\n", abs)
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() || !sc.IsSidecar(path) {
			return nil
		}

		sidecars++
		lines, err := sc.Read(path)
		if err != nil {
			logger.Warn("%v", err)
			return nil
		}
		entries += len(lines)

		marker := ""
		owner := strings.TrimSuffix(path, ext)
		if _, err := os.Stat(owner); err != nil {
			marker = "  (orphaned)"
			orphans++
		}
		fmt.Printf("  %s: %d entries%s\n", path, len(lines), marker)

		if verbosity > 0 {
			for _, line := range lines {
				fmt.Printf("    %s\n", line)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", abs, err)
	}

	if sidecars == 0 {
		fmt.Println("  none found")
		return nil
	}
	fmt.Printf("\n%d sidecar files, %d entries, %d orphaned\n", sidecars, entries, orphans)
	return nil
}
