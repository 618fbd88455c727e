package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache manages the local checkout cache.
type Cache struct {
	config *Config
}

// NewCache creates a new Cache with the given configuration.
func NewCache(config *Config) *Cache {
	if config == nil {
		config = DefaultConfig()
	}
	return &Cache{config: config}
}

// Config returns the cache configuration.
func (c *Cache) Config() *Config {
	return c.config
}

// Resolve returns the filesystem path of a remote file, if its repository is cached.
func (c *Cache) Resolve(r Remote) (string, error) {
	if !c.config.IsCached(r.Repo, r.Ref) {
		return "", fmt.Errorf("not cached: %s@%s", r.Repo, r.Ref)
	}
	p := filepath.Join(c.config.RepoPath(r.Repo, r.Ref), filepath.FromSlash(r.File))
	info, err := os.Stat(p)
	if err != nil {
		return "", fmt.Errorf("%s not found in %s@%s", r.File, r.Repo, r.Ref)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s in %s@%s is a directory", r.File, r.Repo, r.Ref)
	}
	return p, nil
}

// Store stores a repository checkout in the cache from a source directory.
// Only .dawn files are copied.
func (c *Cache) Store(repo, ref, sourceDir string) error {
	destDir := c.config.RepoPath(repo, ref)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	return filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories
		if info.IsDir() {
			if path != sourceDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".dawn" {
			return nil
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(destDir, relPath)
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(destPath, content, 0644)
	})
}

// Remove removes a repository checkout from the cache.
func (c *Cache) Remove(repo, ref string) error {
	return os.RemoveAll(c.config.RepoPath(repo, ref))
}

// Clean removes all cached checkouts.
func (c *Cache) Clean() error {
	return os.RemoveAll(c.config.CacheDir)
}
