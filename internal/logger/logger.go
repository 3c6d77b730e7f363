// Package logger provides leveled logging for the dupesweep CLI.
// Verbosity is controlled by the repeatable -v flag: level 0 prints
// warnings and errors only, level 1 adds informational messages and
// level 2 adds per-file debug detail.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Verbosity levels.
const (
	LevelWarn  = 0
	LevelInfo  = 1
	LevelDebug = 2
)

var (
	mu     sync.RWMutex
	level  int
	output io.Writer = os.Stderr
)

// SetLevel sets the verbosity level.
func SetLevel(l int) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// Level returns the current verbosity level.
func Level() int {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetOutput sets the output writer for log messages.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Error prints an error message. Always shown.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(output, "[ERROR] "+format+"\n", args...)
}

// Warn prints a warning message. Always shown.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
}

// Info prints an informational message at verbosity 1 or higher.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if level >= LevelInfo {
		fmt.Fprintf(output, "[INFO] "+format+"\n", args...)
	}
}

// Debug prints a debug message at verbosity 2 or higher.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if level >= LevelDebug {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}
