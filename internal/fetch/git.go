package fetch

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitFetcher fetches remote includes from Git repositories.
type GitFetcher struct {
	cache  *Cache
	logger *slog.Logger
	clone  func(dir string, r Remote) (*git.Repository, error)
}

// NewGitFetcher creates a new GitFetcher.
func NewGitFetcher(cache *Cache, logger *slog.Logger) *GitFetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &GitFetcher{cache: cache, logger: logger, clone: cloneRemote}
}

// FetchFile implements the include resolver's fetcher. It returns the local
// path of the referenced file, cloning its repository into the cache on a miss.
func (f *GitFetcher) FetchFile(ref string) (string, error) {
	r, err := ParseRemote(ref)
	if err != nil {
		return "", err
	}

	if f.cache.config.IsCached(r.Repo, r.Ref) {
		f.logger.Debug("remote include cache hit", "repo", r.Repo, "ref", r.Ref)
		return f.cache.Resolve(r)
	}

	if err := f.cache.config.EnsureDirs(); err != nil {
		return "", fmt.Errorf("failed to create cache directories: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "dawn-fetch-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	f.logger.Debug("cloning remote include", "url", r.GitURL(), "ref", r.Ref)
	repo, err := f.clone(tempDir, r)
	if err != nil {
		return "", fmt.Errorf("failed to clone repository %s: %w", r.GitURL(), err)
	}

	if err := checkoutVersion(repo, r.Ref); err != nil {
		return "", fmt.Errorf("failed to checkout version %s: %w", r.Ref, err)
	}

	if err := f.cache.Store(r.Repo, r.Ref, tempDir); err != nil {
		return "", fmt.Errorf("failed to store in cache: %w", err)
	}

	return f.cache.Resolve(r)
}

func cloneRemote(dir string, r Remote) (*git.Repository, error) {
	return git.PlainClone(dir, false, &git.CloneOptions{
		URL:  r.GitURL(),
		Tags: git.AllTags,
	})
}

// checkoutVersion checks out a tag, branch or commit in the repository.
func checkoutVersion(repo *git.Repository, ver string) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}

	candidates := []plumbing.Revision{
		plumbing.Revision(plumbing.NewTagReferenceName(ver)),
		plumbing.Revision(plumbing.NewRemoteReferenceName("origin", ver)),
		plumbing.Revision(plumbing.NewBranchReferenceName(ver)),
		plumbing.Revision(ver),
	}
	for _, rev := range candidates {
		hash, err := repo.ResolveRevision(rev)
		if err != nil {
			continue
		}
		return worktree.Checkout(&git.CheckoutOptions{Hash: *hash})
	}

	return fmt.Errorf("version not found: %s", ver)
}
