// Package config resolves the immutable run configuration for dupesweep.
// Flags are resolved once at startup, merged over optional TOML defaults
// from ~/.dupesweep/config.toml, and threaded explicitly through all
// components.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when neither a flag nor the config file sets a value.
const (
	DefaultReportPath = "dry_run_output.txt"
	DefaultSidecarExt = ".dupes"
	DefaultJdupesPath = "jdupes"
)

// Config is the resolved, immutable run configuration.
type Config struct {
	Directories []string // absolute, order-significant

	DryRun     bool
	ReportPath string
	Verbosity  int
	Progress   bool

	JdupesPath string
	HashDB     string
	ExtraArgs  []string

	SidecarExt       string // with leading dot
	ExcludeSidecars  bool
	MergeExisting    bool
	DeleteDupSidecar bool

	AssumeYes  bool
	LedgerPath string
	NoLedger   bool
}

// FileDefaults are the values a user may pre-set in the config file.
type FileDefaults struct {
	JdupesPath   string `toml:"jdupes_path"`
	JdupesHashDB string `toml:"jdupes_hashdb"`
	SidecarExt   string `toml:"sidecar_ext"`
	LedgerPath   string `toml:"ledger_path"`
	NoLedger     bool   `toml:"no_ledger"`
}

// ConfigDir returns the dupesweep configuration directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dupesweep"
	}
	return filepath.Join(home, ".dupesweep")
}

// DefaultsPath returns the path of the optional TOML defaults file.
func DefaultsPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultLedgerPath returns the default ledger database path.
func DefaultLedgerPath() string {
	return filepath.Join(ConfigDir(), "ledger.db")
}

// LoadDefaults reads the TOML defaults file at path.
// A missing file is not an error; zero defaults are returned.
func LoadDefaults(path string) (FileDefaults, error) {
	var d FileDefaults
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return d, nil
}

// Normalize validates the configuration and resolves paths.
// Directories are made absolute and must exist; the sidecar extension
// gets its leading dot. Returns a configuration error suitable for
// aborting before any destructive action.
func (c *Config) Normalize() error {
	if len(c.Directories) == 0 {
		return fmt.Errorf("at least one directory is required")
	}

	for i, dir := range c.Directories {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("invalid directory %s: %w", dir, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", dir)
		}
		c.Directories[i] = filepath.Clean(abs)
	}

	if c.SidecarExt == "" {
		c.SidecarExt = DefaultSidecarExt
	}
	if !strings.HasPrefix(c.SidecarExt, ".") {
		c.SidecarExt = "." + c.SidecarExt
	}
	if c.SidecarExt == "." {
		return fmt.Errorf("invalid sidecar extension")
	}

	if c.JdupesPath == "" {
		c.JdupesPath = DefaultJdupesPath
	}
	if c.ReportPath == "" {
		c.ReportPath = DefaultReportPath
	}
	if c.LedgerPath == "" {
		c.LedgerPath = DefaultLedgerPath()
	}

	return nil
}

// SidecarExtNoDot returns the sidecar extension without the leading dot,
// as expected by the jdupes --ext-filter flag.
func (c *Config) SidecarExtNoDot() string {
	return strings.TrimPrefix(c.SidecarExt, ".")
}

// SplitArgs splits a command-line string into arguments, honoring single
// and double quotes. Used for the --jdupes-extra-args passthrough.
func SplitArgs(s string) ([]string, error) {
	var args []string
	var cur strings.Builder
	var quote rune
	inArg := false

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unbalanced quote in %q", s)
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
