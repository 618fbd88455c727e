// Package fetch provides fetching and caching of remote DawnLang includes.
package fetch

import (
	"os"
	"path/filepath"
)

// Config holds configuration for the fetch system.
type Config struct {
	// CacheDir is the root directory for fetched repositories.
	// Defaults to ~/.dawn/pkg
	CacheDir string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{CacheDir: defaultCacheDir()}
}

// defaultCacheDir returns the default cache directory.
// Uses DAWN_HOME environment variable if set, otherwise ~/.dawn
func defaultCacheDir() string {
	if dir := os.Getenv("DAWN_HOME"); dir != "" {
		return filepath.Join(dir, "pkg")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory
		return filepath.Join(".", ".dawn", "pkg")
	}

	return filepath.Join(homeDir, ".dawn", "pkg")
}

// EnsureDirs creates the cache directory if it doesn't exist.
func (c *Config) EnsureDirs() error {
	return os.MkdirAll(c.CacheDir, 0755)
}

// RepoPath returns the path where a repository checkout is cached.
// Format: CacheDir/host/owner/repo@ref/
func (c *Config) RepoPath(repo, ref string) string {
	return filepath.Join(c.CacheDir, filepath.FromSlash(repo)+"@"+ref)
}

// IsCached returns true if a repository checkout is already cached.
func (c *Config) IsCached(repo, ref string) bool {
	info, err := os.Stat(c.RepoPath(repo, ref))
	return err == nil && info.IsDir()
}
