package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/rules_go/go/tools/bazel"
)

// testdataPath returns the path of a file under this package's testdata.
// In Bazel tests, it uses runfiles. Outside of Bazel, it falls back to the
// package directory, which is the working directory of go test.
func testdataPath(t *testing.T, name string) string {
	t.Helper()
	if p, err := bazel.Runfile(filepath.Join("internal", "build", "testdata", name)); err == nil {
		return p
	}

	p := filepath.Join("testdata", name)
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("testdata %s: %v", name, err)
	}
	return p
}
