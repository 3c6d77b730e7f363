// Package jdupes invokes the external jdupes binary and parses its
// line-oriented output into duplicate groups.
package jdupes

import (
	"bufio"
	"io"
	"strings"

	"github.com/dupesweep/dupesweep/internal/model"
)

// statusPrefixes identify jdupes progress chatter that may be
// interleaved with group output. Such lines are never paths.
var statusPrefixes = []string{
	"Scanning:",
	"Comparing ",
	"Examining ",
	"Loading ",
	"Hashing",
	"Progress ",
}

// IsStatusLine reports whether a line is jdupes progress/status output
// rather than a file path. Progress lines are rewritten in place with
// carriage returns or carry a well-known prefix.
func IsStatusLine(line string) bool {
	if strings.ContainsRune(line, '\r') {
		return true
	}
	trimmed := strings.TrimSpace(line)
	for _, p := range statusPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// GroupScanner reads duplicate groups from a jdupes output stream.
// Blank lines delimit groups; the first path in each group is the file
// jdupes chose to keep. Status lines are forwarded to the status
// callback and never emitted as paths.
//
// Usage mirrors bufio.Scanner:
//
//	gs := NewGroupScanner(r)
//	for gs.Scan() {
//	    g := gs.Group()
//	    ...
//	}
//	if err := gs.Err(); err != nil { ... }
type GroupScanner struct {
	scanner *bufio.Scanner
	status  func(string)
	classif func(string) bool
	group   model.Group
	done    bool
}

// NewGroupScanner creates a scanner over a jdupes output stream.
func NewGroupScanner(r io.Reader) *GroupScanner {
	s := bufio.NewScanner(r)
	// Paths can be long; grow the line buffer well past the default.
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &GroupScanner{
		scanner: s,
		classif: IsStatusLine,
	}
}

// SetStatusFunc sets the callback receiving status lines.
func (gs *GroupScanner) SetStatusFunc(fn func(string)) {
	gs.status = fn
}

// SetStatusClassifier overrides the status-line predicate.
func (gs *GroupScanner) SetStatusClassifier(fn func(string) bool) {
	gs.classif = fn
}

// Scan advances to the next complete duplicate group. Groups with fewer
// than two paths have nothing to deduplicate and are discarded, as is a
// trailing empty block.
func (gs *GroupScanner) Scan() bool {
	if gs.done {
		return false
	}

	var paths []string
	for gs.scanner.Scan() {
		line := gs.scanner.Text()

		if strings.TrimSpace(line) == "" {
			if len(paths) >= 2 {
				gs.group = model.Group{Paths: paths}
				return true
			}
			// Singleton or empty block: nothing to process.
			paths = nil
			continue
		}

		if gs.classif != nil && gs.classif(line) {
			if gs.status != nil {
				gs.status(line)
			}
			continue
		}

		paths = append(paths, line)
	}

	gs.done = true
	if len(paths) >= 2 {
		gs.group = model.Group{Paths: paths}
		return true
	}
	return false
}

// Group returns the group parsed by the last successful Scan.
func (gs *GroupScanner) Group() model.Group {
	return gs.group
}

// Err returns the first error encountered while reading the stream.
func (gs *GroupScanner) Err() error {
	return gs.scanner.Err()
}
