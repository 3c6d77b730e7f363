// Package report writes the dry-run report: one planned-action
// description per line, in exactly the order the actions would have
// occurred. The report is the only file a dry run may create.
package report

import (
	"bufio"
	"fmt"
	"os"
)

// Writer accumulates planned-action lines into the report file.
type Writer struct {
	path string
	f    *os.File
	w    *bufio.Writer
}

// NewWriter creates (truncating) the report file at path.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	return &Writer{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

// Path returns the report file path.
func (w *Writer) Path() string {
	return w.path
}

// Line appends one planned-action description.
func (w *Writer) Line(format string, args ...any) {
	fmt.Fprintf(w.w, format+"\n", args...)
}

// Close flushes and closes the report file.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to write report %s: %w", w.path, err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("failed to write report %s: %w", w.path, err)
	}
	return nil
}
