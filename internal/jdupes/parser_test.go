// Package jdupes provides tests for the group parser.
package jdupes

import (
	"strings"
	"testing"
)

func TestGroupScanner_TwoGroups(t *testing.T) {
	input := "/data/a/x.txt\n/data/b/x.txt\n\n\n/data/a/y.txt\n/data/b/y.txt\n/data/c/y.txt\n\n"

	gs := NewGroupScanner(strings.NewReader(input))

	var groups [][]string
	for gs.Scan() {
		groups = append(groups, gs.Group().Paths)
	}
	if err := gs.Err(); err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(groups[0]) != 2 || groups[0][0] != "/data/a/x.txt" {
		t.Errorf("unexpected first group: %v", groups[0])
	}
	if len(groups[1]) != 3 || groups[1][2] != "/data/c/y.txt" {
		t.Errorf("unexpected second group: %v", groups[1])
	}
}

func TestGroupScanner_StatusLinesForwarded(t *testing.T) {
	input := "Scanning: 120 files, 3 dirs\n" +
		"/data/a/x.txt\n" +
		"Comparing 1 of 2\n" +
		"/data/b/x.txt\n" +
		"\n"

	gs := NewGroupScanner(strings.NewReader(input))
	var statuses []string
	gs.SetStatusFunc(func(line string) {
		statuses = append(statuses, line)
	})

	var groups [][]string
	for gs.Scan() {
		groups = append(groups, gs.Group().Paths)
	}

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	for _, p := range groups[0] {
		if IsStatusLine(p) {
			t.Errorf("status line leaked into group: %q", p)
		}
	}
	if len(statuses) != 2 {
		t.Errorf("expected 2 status lines, got %d: %v", len(statuses), statuses)
	}
}

func TestGroupScanner_TrailingGroupWithoutBlankLine(t *testing.T) {
	input := "/data/a/x.txt\n/data/b/x.txt"

	gs := NewGroupScanner(strings.NewReader(input))
	if !gs.Scan() {
		t.Fatal("expected trailing group to be emitted")
	}
	g := gs.Group()
	if len(g.Paths) != 2 || g.Survivor() != "/data/a/x.txt" {
		t.Errorf("unexpected group: %v", g.Paths)
	}
	if gs.Scan() {
		t.Error("expected no further groups")
	}
}

func TestGroupScanner_SingletonDiscarded(t *testing.T) {
	input := "/data/a/only.txt\n\n/data/a/x.txt\n/data/b/x.txt\n\n"

	gs := NewGroupScanner(strings.NewReader(input))
	var groups [][]string
	for gs.Scan() {
		groups = append(groups, gs.Group().Paths)
	}

	if len(groups) != 1 {
		t.Fatalf("expected singleton to be discarded, got %d groups", len(groups))
	}
	if groups[0][0] != "/data/a/x.txt" {
		t.Errorf("unexpected group: %v", groups[0])
	}
}

func TestGroupScanner_EmptyStream(t *testing.T) {
	gs := NewGroupScanner(strings.NewReader(""))
	if gs.Scan() {
		t.Error("expected no groups from empty stream")
	}

	gs = NewGroupScanner(strings.NewReader("\n\n\n"))
	if gs.Scan() {
		t.Error("expected no groups from blank stream")
	}
}

func TestIsStatusLine(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"/data/a/x.txt", false},
		{"Scanning: 42 files", true},
		{"Comparing 1 of 9", true},
		{"progress\rExamining file", true},
		{"/data/Scanning Results/x.txt", false},
	}
	for _, c := range cases {
		if got := IsStatusLine(c.line); got != c.want {
			t.Errorf("IsStatusLine(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}
