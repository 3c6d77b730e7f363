// Package ledger records deduplication runs in a local SQLite database.
// Every destructive run gets one row plus one row per deleted duplicate,
// so `dupesweep history` can answer what was deleted, when, and in favor
// of which survivor. The database is encrypted via SQLCipher when
// DUPESWEEP_PASSPHRASE is set.
//
// Ledger writes are bookkeeping only: failures are logged by callers and
// never abort a run.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/dupesweep/dupesweep/internal/model"
)

// Ledger is a handle to the run-history database.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the ledger database at path.
// If passphrase is empty the database is unencrypted.
func Open(path, passphrase string) (*Ledger, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// The passphrase travels in the DSN query string and must be
	// escaped, or characters like & and % corrupt the pragma.
	var dsn string
	if passphrase != "" {
		dsn = fmt.Sprintf("file:%s?_pragma_key=%s&_journal_mode=WAL&_synchronous=NORMAL", path, url.QueryEscape(passphrase))
	} else {
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to ledger: %w", err)
	}

	return &Ledger{db: db, path: path}, nil
}

// Close closes the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Initialize creates the schema if it does not exist.
func (l *Ledger) Initialize(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
    run_id           TEXT PRIMARY KEY,
    started_at       TEXT NOT NULL,
    finished_at      TEXT,
    mode             TEXT NOT NULL DEFAULT 'normal',
    directories      TEXT NOT NULL,
    groups_processed INTEGER NOT NULL DEFAULT 0,
    duplicates_seen  INTEGER NOT NULL DEFAULT 0,
    files_deleted    INTEGER NOT NULL DEFAULT 0,
    failures         INTEGER NOT NULL DEFAULT 0,
    bytes_reclaimed  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS deletions (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id         TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    survivor_path  TEXT NOT NULL,
    deleted_path   TEXT NOT NULL,
    sidecar_path   TEXT NOT NULL,
    merged_sidecar INTEGER NOT NULL DEFAULT 0,
    deleted_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deletions_run ON deletions(run_id);
`
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	return nil
}

// BeginRun records the start of a run and returns its id.
func (l *Ledger) BeginRun(ctx context.Context, mode model.RunMode, dirs []string) (string, error) {
	runID := uuid.New().String()
	dirsJSON, err := json.Marshal(dirs)
	if err != nil {
		return "", fmt.Errorf("failed to encode directories: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, mode, directories)
		VALUES (?, ?, ?, ?)
	`, runID, time.Now().UTC().Format(time.RFC3339), string(mode), string(dirsJSON))
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return runID, nil
}

// FinishRun records the final counters of a run.
func (l *Ledger) FinishRun(ctx context.Context, runID string, groups, duplicates, deleted, failures int, bytes int64) error {
	_, err := l.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, groups_processed = ?, duplicates_seen = ?,
		    files_deleted = ?, failures = ?, bytes_reclaimed = ?
		WHERE run_id = ?
	`, time.Now().UTC().Format(time.RFC3339), groups, duplicates, deleted, failures, bytes, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordDeletion records one deleted duplicate.
func (l *Ledger) RecordDeletion(ctx context.Context, runID, survivor, deleted, sidecarPath string, merged bool) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO deletions (run_id, survivor_path, deleted_path, sidecar_path, merged_sidecar, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, survivor, deleted, sidecarPath, merged, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record deletion: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first. limit <= 0 returns all.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]*model.RunRecord, error) {
	query := `
		SELECT run_id, started_at, finished_at, mode, directories,
		       groups_processed, duplicates_seen, files_deleted, failures, bytes_reclaimed
		FROM runs ORDER BY started_at DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = l.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = l.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.RunRecord
	for rows.Next() {
		var r model.RunRecord
		var started string
		var finished sql.NullString
		var mode, dirsJSON string

		err := rows.Scan(&r.RunID, &started, &finished, &mode, &dirsJSON,
			&r.Groups, &r.Duplicates, &r.FilesDeleted, &r.Failures, &r.BytesReclaimed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		r.Mode = model.RunMode(mode)
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished.Valid {
			t, err := time.Parse(time.RFC3339, finished.String)
			if err == nil {
				r.FinishedAt = &t
			}
		}
		json.Unmarshal([]byte(dirsJSON), &r.Directories)

		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// Deletions returns the deletion rows of one run, in insertion order.
func (l *Ledger) Deletions(ctx context.Context, runID string) ([]*model.DeletionRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, survivor_path, deleted_path, sidecar_path, merged_sidecar, deleted_at
		FROM deletions WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deletions: %w", err)
	}
	defer rows.Close()

	var recs []*model.DeletionRecord
	for rows.Next() {
		var d model.DeletionRecord
		var deletedAt string
		if err := rows.Scan(&d.RunID, &d.SurvivorPath, &d.DeletedPath, &d.SidecarPath, &d.MergedSidecar, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deletion: %w", err)
		}
		d.DeletedAt, _ = time.Parse(time.RFC3339, deletedAt)
		recs = append(recs, &d)
	}
	return recs, rows.Err()
}
