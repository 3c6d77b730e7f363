package core

import (
	"context"
	"errors"
	"os"

	"github.com/dupesweep/dupesweep/internal/config"
	"github.com/dupesweep/dupesweep/internal/ledger"
	"github.com/dupesweep/dupesweep/internal/logger"
	"github.com/dupesweep/dupesweep/internal/model"
	"github.com/dupesweep/dupesweep/internal/report"
	"github.com/dupesweep/dupesweep/internal/sidecar"
)

// Summary accumulates the counters printed at the end of a run.
type Summary struct {
	Groups         int
	Duplicates     int
	FilesDeleted   int
	Failures       int
	BytesReclaimed int64
}

// Processor applies one duplicate group at a time: in normal mode it
// deletes duplicates and records them in the survivor's sidecar; in
// dry-run mode it writes the planned actions to the report instead.
//
// Per-file filesystem errors are logged and counted, never fatal: one
// failed duplicate must not abort the run.
type Processor struct {
	cfg      *config.Config
	sidecars *sidecar.Manager
	report   *report.Writer // non-nil in dry-run mode only
	ledger   *ledger.Ledger // optional, normal mode only
	runID    string
	sum      Summary
}

// NewProcessor creates a processor. rep must be non-nil when cfg.DryRun
// is set; led may be nil to disable ledger bookkeeping.
func NewProcessor(cfg *config.Config, sc *sidecar.Manager, rep *report.Writer, led *ledger.Ledger, runID string) *Processor {
	return &Processor{
		cfg:      cfg,
		sidecars: sc,
		report:   rep,
		ledger:   led,
		runID:    runID,
	}
}

// Summary returns the counters accumulated so far.
func (p *Processor) Summary() Summary {
	return p.sum
}

// ProcessGroup handles one duplicate group. The group is reordered by
// directory priority first; the resulting first path survives.
func (p *Processor) ProcessGroup(ctx context.Context, g model.Group) {
	ordered := model.Group{Paths: OrderByDirectory(g.Paths, p.cfg.Directories)}
	if len(ordered.Paths) < 2 {
		return
	}
	survivor := ordered.Survivor()
	dups := ordered.Duplicates()

	p.sum.Groups++
	p.sum.Duplicates += len(dups)

	logger.Debug("group of %d, keeping %s", len(ordered.Paths), survivor)

	if p.cfg.DryRun {
		p.reportGroup(survivor, dups)
		return
	}
	for _, dup := range dups {
		p.processDuplicate(ctx, survivor, dup)
	}
}

// processDuplicate applies the per-duplicate sequence: merge the
// duplicate's own sidecar, append to the survivor's sidecar, delete the
// duplicate, delete its sidecar.
func (p *Processor) processDuplicate(ctx context.Context, survivor, dup string) {
	dupSidecar := p.sidecars.PathFor(dup)
	survivorSidecar := p.sidecars.PathFor(survivor)

	// Entries to append: merged sidecar content first, then the
	// duplicate's own path. Existing survivor content keeps its place
	// because sidecars are append-only.
	var entries []string
	merged := false
	if p.cfg.MergeExisting {
		if p.sidecars.Exists(dup) {
			lines, err := p.sidecars.Read(dupSidecar)
			if err != nil {
				logger.Error("failed to read sidecar %s: %v", dupSidecar, err)
				p.sum.Failures++
			} else {
				logger.Info("merging sidecar %s into %s", dupSidecar, survivorSidecar)
				entries = lines
				merged = true
			}
		}
	}
	entries = append(entries, dup)

	if err := p.sidecars.Append(survivor, entries); err != nil {
		logger.Error("%v", err)
		p.sum.Failures++
	} else {
		logger.Debug("recorded %d entries in %s", len(entries), survivorSidecar)
	}

	var size int64
	if info, err := os.Stat(dup); err == nil {
		size = info.Size()
	}
	if err := os.Remove(dup); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Expected after a partially-completed earlier run.
			logger.Warn("file not found when attempting to delete %s", dup)
		} else {
			logger.Error("failed to delete %s: %v", dup, err)
			p.sum.Failures++
		}
	} else {
		logger.Info("deleted duplicate file: %s", dup)
		p.sum.FilesDeleted++
		p.sum.BytesReclaimed += size
	}

	// The duplicate's sidecar may only be deleted once its contents have
	// been merged into the survivor's; with merging disabled it is
	// always retained so no deletion history is lost.
	if merged {
		if p.cfg.DeleteDupSidecar {
			if err := p.sidecars.Remove(dupSidecar); err != nil {
				logger.Error("%v", err)
				p.sum.Failures++
			} else {
				logger.Info("deleted sidecar file: %s", dupSidecar)
			}
		} else {
			logger.Info("retained sidecar file: %s", dupSidecar)
		}
	}

	if p.ledger != nil {
		if err := p.ledger.RecordDeletion(ctx, p.runID, survivor, dup, survivorSidecar, merged); err != nil {
			logger.Warn("ledger: %v", err)
		}
	}
}

// reportGroup writes the planned actions for one group to the dry-run
// report, in the order they would occur.
func (p *Processor) reportGroup(survivor string, dups []string) {
	r := p.report
	survivorSidecar := p.sidecars.PathFor(survivor)

	r.Line("Would keep file: %s", survivor)

	var contents []string
	for _, dup := range dups {
		dupSidecar := p.sidecars.PathFor(dup)
		hasSidecar := false
		if p.cfg.MergeExisting {
			if p.sidecars.Exists(dup) {
				hasSidecar = true
				r.Line("Would merge existing sidecar file: %s into %s", dupSidecar, survivorSidecar)
				lines, err := p.sidecars.Read(dupSidecar)
				if err != nil {
					r.Line("Error reading existing sidecar file %s: %v", dupSidecar, err)
				} else {
					contents = append(contents, lines...)
				}
			}
		}
		contents = append(contents, dup)
		r.Line("Would delete duplicate file: %s", dup)
		if hasSidecar {
			if p.cfg.DeleteDupSidecar {
				r.Line("Would delete sidecar file: %s", dupSidecar)
			} else {
				r.Line("Would not delete sidecar file: %s", dupSidecar)
			}
		}
	}

	if p.sidecars.Exists(survivor) {
		r.Line("Would append to sidecar file: %s with contents:", survivorSidecar)
	} else {
		r.Line("Would create sidecar file: %s with contents:", survivorSidecar)
	}
	for _, c := range contents {
		r.Line("  %s", c)
	}
	r.Line("")
}
