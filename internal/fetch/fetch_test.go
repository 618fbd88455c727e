package fetch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("DAWN_HOME", "/tmp/dawn-home")
	config := DefaultConfig()

	assert.Equal(t, filepath.Join("/tmp/dawn-home", "pkg"), config.CacheDir)
}

func TestConfig_RepoPath(t *testing.T) {
	config := &Config{CacheDir: "/tmp/dawn/pkg"}

	path := config.RepoPath("github.com/example/lib", "v1.2.3")
	assert.Equal(t, "/tmp/dawn/pkg/github.com/example/lib@v1.2.3", filepath.ToSlash(path))
}

func TestParseRemote(t *testing.T) {
	tests := []struct {
		ref     string
		want    Remote
		wantErr bool
	}{
		{
			ref:  "github.com/example/lib/math.dawn@v1.0.0",
			want: Remote{Repo: "github.com/example/lib", File: "math.dawn", Ref: "v1.0.0"},
		},
		{
			ref:  "gitlab.com/team/repo/src/io/print.dawn@main",
			want: Remote{Repo: "gitlab.com/team/repo", File: "src/io/print.dawn", Ref: "main"},
		},
		{ref: "github.com/example/lib/math.dawn", wantErr: true},
		{ref: "github.com/example/lib/math.dawn@", wantErr: true},
		{ref: "github.com/example/math.dawn@v1", wantErr: true},
		{ref: "localhost/example/lib/math.dawn@v1", wantErr: true},
		{ref: "github.com/example/lib/../x.dawn@v1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseRemote(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ref, got.String())
		})
	}
}

func TestRemote_GitURL(t *testing.T) {
	r := Remote{Repo: "github.com/example/lib", File: "a.dawn", Ref: "v1"}
	assert.Equal(t, "https://github.com/example/lib.git", r.GitURL())
}

func TestCache_Store(t *testing.T) {
	cacheDir := t.TempDir()
	sourceDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(sourceDir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "src", "lib.dawn"), []byte("int x = 1;\n"), 0644))
	// These files should not be copied
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "README.md"), []byte("# Test\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(sourceDir, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, ".git", "x.dawn"), []byte("x"), 0644))

	cache := NewCache(&Config{CacheDir: cacheDir})
	require.NoError(t, cache.Store("github.com/test/lib", "v1.0.0", sourceDir))

	repoPath := cache.Config().RepoPath("github.com/test/lib", "v1.0.0")
	assert.FileExists(t, filepath.Join(repoPath, "src", "lib.dawn"))
	assert.NoFileExists(t, filepath.Join(repoPath, "README.md"))
	assert.NoDirExists(t, filepath.Join(repoPath, ".git"))

	path, err := cache.Resolve(Remote{Repo: "github.com/test/lib", File: "src/lib.dawn", Ref: "v1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repoPath, "src", "lib.dawn"), path)

	_, err = cache.Resolve(Remote{Repo: "github.com/test/lib", File: "missing.dawn", Ref: "v1.0.0"})
	assert.Error(t, err)
	_, err = cache.Resolve(Remote{Repo: "github.com/test/lib", File: "src", Ref: "v1.0.0"})
	assert.Error(t, err)
	_, err = cache.Resolve(Remote{Repo: "github.com/test/lib", File: "src/lib.dawn", Ref: "v2.0.0"})
	assert.Error(t, err)

	require.NoError(t, cache.Remove("github.com/test/lib", "v1.0.0"))
	assert.False(t, cache.Config().IsCached("github.com/test/lib", "v1.0.0"))
}

// localClone builds a repository in dir with one tagged commit instead of cloning.
func localClone(t *testing.T, calls *int) func(string, Remote) (*git.Repository, error) {
	return func(dir string, r Remote) (*git.Repository, error) {
		*calls++
		repo, err := git.PlainInit(dir, false)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "math.dawn"), []byte("int answer = 42;\n"), 0644))

		wt, err := repo.Worktree()
		require.NoError(t, err)
		_, err = wt.Add("math.dawn")
		require.NoError(t, err)
		hash, err := wt.Commit("initial", &git.CommitOptions{
			Author: &object.Signature{Name: "dawn", Email: "dawn@example.com", When: time.Now()},
		})
		require.NoError(t, err)
		_, err = repo.CreateTag("v1.0.0", hash, nil)
		require.NoError(t, err)
		return repo, nil
	}
}

func TestGitFetcher_FetchFile(t *testing.T) {
	cache := NewCache(&Config{CacheDir: t.TempDir()})
	f := NewGitFetcher(cache, nil)
	calls := 0
	f.clone = localClone(t, &calls)

	path, err := f.FetchFile("github.com/example/lib/math.dawn@v1.0.0")
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "int answer = 42;\n", string(content))

	// Second fetch is served from the cache.
	again, err := f.FetchFile("github.com/example/lib/math.dawn@v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, 1, calls)
}

func TestGitFetcher_UnknownVersion(t *testing.T) {
	cache := NewCache(&Config{CacheDir: t.TempDir()})
	f := NewGitFetcher(cache, nil)
	calls := 0
	f.clone = localClone(t, &calls)

	_, err := f.FetchFile("github.com/example/lib/math.dawn@v9.9.9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version not found")
	assert.False(t, cache.Config().IsCached("github.com/example/lib", "v9.9.9"))
}

func TestGitFetcher_BadReference(t *testing.T) {
	f := NewGitFetcher(NewCache(&Config{CacheDir: t.TempDir()}), nil)

	_, err := f.FetchFile("github.com/example/lib/math.dawn")
	assert.Error(t, err)
}
