// Package sidecar provides tests for sidecar file bookkeeping.
package sidecar

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestManager_PathFor(t *testing.T) {
	m := New(".dupes")
	if got := m.PathFor("/data/a/x.txt"); got != "/data/a/x.txt.dupes" {
		t.Errorf("PathFor() = %s", got)
	}
	if !m.IsSidecar("/data/a/x.txt.dupes") {
		t.Error("IsSidecar should match .dupes suffix")
	}
	if m.IsSidecar("/data/a/x.txt") {
		t.Error("IsSidecar should not match plain file")
	}
}

func TestManager_AppendCreatesAndPreservesOrder(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "x.txt")

	m := New(".dupes")
	if err := m.Append(file, []string{"/gone/one.txt", "/gone/two.txt"}); err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	if err := m.Append(file, []string{"/gone/three.txt"}); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	lines, err := m.Read(m.PathFor(file))
	if err != nil {
		t.Fatalf("failed to read sidecar: %v", err)
	}
	want := []string{"/gone/one.txt", "/gone/two.txt", "/gone/three.txt"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("sidecar lines = %v, want %v", lines, want)
	}
}

func TestManager_AppendNothing(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "x.txt")

	m := New(".dupes")
	if err := m.Append(file, nil); err != nil {
		t.Fatalf("empty append should succeed: %v", err)
	}
	if m.Exists(file) {
		t.Error("empty append must not create a sidecar")
	}
}

func TestManager_ReadSkipsBlankLines(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "x.txt.dupes")
	if err := os.WriteFile(path, []byte("/a/one.txt\n\n/a/two.txt\n\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	m := New(".dupes")
	lines, err := m.Read(path)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("expected 2 entries, got %d: %v", len(lines), lines)
	}
}

func TestManager_Remove(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "x.txt.dupes")
	os.WriteFile(path, []byte("/a/one.txt\n"), 0644)

	m := New(".dupes")
	if err := m.Remove(path); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("sidecar should be gone")
	}

	if err := m.Remove(path); err == nil {
		t.Error("removing a missing sidecar should error")
	}
}
