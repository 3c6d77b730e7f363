// Package core processes duplicate groups: ordering by directory
// priority, sidecar bookkeeping, deletion, and dry-run reporting.
package core

import (
	"path/filepath"
	"strings"
)

// OrderByDirectory orders paths by the priority of the configured
// directories: paths under the first-listed directory come first, then
// paths under the second, and so on. Paths under none of the
// directories keep their relative order at the end. Ordering is stable
// within each bucket.
//
// jdupes --param-order already ranks survivors this way; reordering
// here makes the survivor choice independent of the external tool's
// exact output order.
func OrderByDirectory(paths []string, dirs []string) []string {
	normDirs := make([]string, len(dirs))
	for i, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			abs = d
		}
		normDirs[i] = filepath.Clean(abs)
	}

	norm := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		norm[i] = filepath.Clean(abs)
	}

	ordered := make([]string, 0, len(norm))
	claimed := make([]bool, len(norm))
	for _, dir := range normDirs {
		prefix := dir + string(filepath.Separator)
		for i, p := range norm {
			if !claimed[i] && strings.HasPrefix(p, prefix) {
				ordered = append(ordered, p)
				claimed[i] = true
			}
		}
	}
	for i, p := range norm {
		if !claimed[i] {
			ordered = append(ordered, p)
		}
	}
	return ordered
}
