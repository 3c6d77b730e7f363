// Package sidecar manages the .dupes sidecar files that record which
// duplicate paths were deleted in favor of a surviving file.
//
// A sidecar lives at <file><ext>, holds one absolute path per line,
// UTF-8, append-only, no header or footer. It is created on demand and
// its lifetime is independent of the file it accompanies.
package sidecar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Manager performs sidecar reads, appends and deletes for one run.
type Manager struct {
	ext string // with leading dot
}

// New creates a manager for the given sidecar extension (leading dot
// included, e.g. ".dupes").
func New(ext string) *Manager {
	return &Manager{ext: ext}
}

// Ext returns the sidecar extension including the leading dot.
func (m *Manager) Ext() string {
	return m.ext
}

// PathFor returns the sidecar path accompanying file.
func (m *Manager) PathFor(file string) string {
	return file + m.ext
}

// IsSidecar reports whether path names a sidecar file.
func (m *Manager) IsSidecar(path string) bool {
	return strings.HasSuffix(path, m.ext)
}

// Exists reports whether the sidecar accompanying file exists.
func (m *Manager) Exists(file string) bool {
	_, err := os.Stat(m.PathFor(file))
	return err == nil
}

// Read returns the entries of the sidecar at sidecarPath, one per line.
// Blank lines are skipped.
func (m *Manager) Read(sidecarPath string) ([]string, error) {
	f, err := os.Open(sidecarPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar %s: %w", sidecarPath, err)
	}
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := s.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sidecar %s: %w", sidecarPath, err)
	}
	return lines, nil
}

// Append appends entries to the sidecar accompanying survivor, creating
// the file if absent. Existing content is never rewritten, so prior
// entries keep their position.
func (m *Manager) Append(survivor string, entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	path := m.PathFor(survivor)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open sidecar %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, entry := range entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			return fmt.Errorf("failed to write sidecar %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write sidecar %s: %w", path, err)
	}
	return nil
}

// Remove deletes the sidecar at sidecarPath.
func (m *Manager) Remove(sidecarPath string) error {
	if err := os.Remove(sidecarPath); err != nil {
		return fmt.Errorf("failed to delete sidecar %s: %w", sidecarPath, err)
	}
	return nil
}
