// Package build compiles DawnLang programs to native executables through a C toolchain.
package build

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds configuration for the build system.
type Config struct {
	// DawnHome is the root directory for DawnLang data.
	// Defaults to ~/.dawn
	DawnHome string

	// BuildDir is where build workspaces are created.
	// Defaults to DawnHome/build
	BuildDir string

	// CacheDir is where remote includes are cached.
	// Defaults to DawnHome/pkg
	CacheDir string

	// CC is the C compiler. Defaults to gcc, or DAWN_CC when set.
	CC string

	// CFlags are passed to CC after the source file.
	CFlags []string

	// ArtifactName is the file the compiler writes when no output is named.
	ArtifactName string

	// ArtifactWaitAttempts bounds how often the artifact is looked for
	// after the compiler exits.
	ArtifactWaitAttempts int

	// ArtifactWaitBase is the first backoff delay; each retry doubles it.
	ArtifactWaitBase time.Duration
}

// DefaultConfig returns the default build configuration.
func DefaultConfig() *Config {
	dawnHome := defaultDawnHome()

	cc := "gcc"
	if v := os.Getenv("DAWN_CC"); v != "" {
		cc = v
	}

	artifact := "a.out"
	if runtime.GOOS == "windows" {
		artifact = "a.exe"
	}

	return &Config{
		DawnHome:             dawnHome,
		BuildDir:             filepath.Join(dawnHome, "build"),
		CacheDir:             filepath.Join(dawnHome, "pkg"),
		CC:                   cc,
		CFlags:               []string{"-w"},
		ArtifactName:         artifact,
		ArtifactWaitAttempts: 5,
		ArtifactWaitBase:     50 * time.Millisecond,
	}
}

// defaultDawnHome returns the default DawnLang home directory.
// Uses DAWN_HOME environment variable if set, otherwise ~/.dawn
func defaultDawnHome() string {
	if dir := os.Getenv("DAWN_HOME"); dir != "" {
		return dir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory
		return filepath.Join(".", ".dawn")
	}

	return filepath.Join(homeDir, ".dawn")
}

// EnsureDirs creates all necessary directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DawnHome, c.BuildDir, c.CacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
