// Package model defines the core domain models for dupesweep.
package model

import (
	"time"
)

// Group is one set of duplicate files as reported by jdupes.
// Paths is ordered: the first element is the survivor, the rest are
// deletion candidates. A group is never empty.
type Group struct {
	Paths []string `json:"paths"`
}

// Survivor returns the file that is kept.
func (g Group) Survivor() string {
	return g.Paths[0]
}

// Duplicates returns the deletion candidates.
func (g Group) Duplicates() []string {
	return g.Paths[1:]
}

// RunMode identifies how a run was executed.
type RunMode string

const (
	RunModeNormal RunMode = "normal"
	RunModeDryRun RunMode = "dry-run"
)

// RunRecord is one deduplication run as stored in the ledger.
type RunRecord struct {
	RunID          string     `json:"run_id"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	Mode           RunMode    `json:"mode"`
	Directories    []string   `json:"directories"`
	Groups         int        `json:"groups"`
	Duplicates     int        `json:"duplicates"`
	FilesDeleted   int        `json:"files_deleted"`
	Failures       int        `json:"failures"`
	BytesReclaimed int64      `json:"bytes_reclaimed"`
}

// DeletionRecord is one deleted duplicate as stored in the ledger.
type DeletionRecord struct {
	RunID         string    `json:"run_id"`
	SurvivorPath  string    `json:"survivor_path"`
	DeletedPath   string    `json:"deleted_path"`
	SidecarPath   string    `json:"sidecar_path"`
	MergedSidecar bool      `json:"merged_sidecar"`
	DeletedAt     time.Time `json:"deleted_at"`
}
