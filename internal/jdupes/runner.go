package jdupes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner builds and starts the external jdupes process.
// Duplicate detection is fully delegated to jdupes; the runner only
// composes the fixed flag set and streams output back.
type Runner struct {
	Path       string   // binary path or name, resolved via PATH when relative
	HashDB     string   // optional --hash-db path
	ExcludeExt string   // sidecar extension (no dot) to exclude; empty disables
	ExtraArgs  []string // user passthrough arguments
}

// Process is a running jdupes invocation.
type Process struct {
	cmd    *exec.Cmd
	Stdout io.ReadCloser
	stderr *bytes.Buffer // nil when stderr passes through for progress
}

// Resolve locates the jdupes binary. A missing binary is a
// configuration error and must fail before any prompt.
func (r *Runner) Resolve() (string, error) {
	if filepath.IsAbs(r.Path) {
		return r.Path, nil
	}
	path, err := exec.LookPath(r.Path)
	if err != nil {
		return "", fmt.Errorf("jdupes binary not found (%s): %w", r.Path, err)
	}
	return path, nil
}

// Args composes the jdupes argument list. --param-order makes jdupes
// rank survivors by the order directories were given; --recurse walks
// each directory tree. Directories keep their original order.
func (r *Runner) Args(dirs []string) []string {
	args := []string{"--param-order", "--recurse"}
	if r.HashDB != "" {
		args = append(args, "--hash-db="+r.HashDB)
	}
	if r.ExcludeExt != "" {
		args = append(args, "--ext-filter=noext:"+r.ExcludeExt)
	}
	args = append(args, r.ExtraArgs...)
	args = append(args, dirs...)
	return args
}

// Start launches jdupes over the given directories. When progressTo is
// non-nil, stderr (where jdupes prints progress) is streamed to it;
// otherwise stderr is captured and surfaced on failure.
func (r *Runner) Start(ctx context.Context, dirs []string, progressTo io.Writer) (*Process, error) {
	bin, err := r.Resolve()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, bin, r.Args(dirs)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open jdupes stdout: %w", err)
	}

	p := &Process{cmd: cmd, Stdout: stdout}
	if progressTo != nil {
		cmd.Stderr = progressTo
	} else {
		p.stderr = &bytes.Buffer{}
		cmd.Stderr = p.stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start jdupes: %w", err)
	}
	return p, nil
}

// Wait blocks until jdupes exits. A non-zero exit is fatal and carries
// the captured diagnostic output when available.
func (p *Process) Wait() error {
	err := p.cmd.Wait()
	if err == nil {
		return nil
	}
	if p.stderr != nil {
		if diag := strings.TrimSpace(p.stderr.String()); diag != "" {
			return fmt.Errorf("jdupes failed: %w\n%s", err, diag)
		}
	}
	return fmt.Errorf("jdupes failed: %w", err)
}

// String returns the command line for debug logging.
func (p *Process) String() string {
	return strings.Join(p.cmd.Args, " ")
}
