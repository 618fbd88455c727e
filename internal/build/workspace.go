package build

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IntermediateName is the name of the generated C file inside a workspace.
const IntermediateName = "main.c"

// Workspace is the scratch directory of one build.
type Workspace struct {
	// Config is the build configuration.
	Config *Config

	// Input is the absolute path of the DawnLang entry file.
	Input string

	// Output is the absolute path of the requested executable.
	Output string

	// Hash is the unique identifier for this workspace (based on Input and Output).
	Hash string

	// Dir is the absolute path to the workspace directory.
	Dir string

	// SourcePath is the path of the generated C file.
	SourcePath string
}

// NewWorkspace creates a new workspace for building input into output.
func NewWorkspace(config *Config, input, output string) (*Workspace, error) {
	absInput, err := filepath.Abs(input)
	if err != nil {
		return nil, fmt.Errorf("resolving input path: %w", err)
	}
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return nil, fmt.Errorf("resolving output path: %w", err)
	}

	hash := computeHash(absInput + "\n" + absOutput)
	dir := filepath.Join(config.BuildDir, hash)

	return &Workspace{
		Config:     config,
		Input:      absInput,
		Output:     absOutput,
		Hash:       hash,
		Dir:        dir,
		SourcePath: filepath.Join(dir, IntermediateName),
	}, nil
}

// computeHash computes a short hash from a path key.
// Uses SHA256 truncated to 12 hex characters.
func computeHash(key string) string {
	// Normalize path separators for consistent hashing across platforms
	normalized := strings.ReplaceAll(key, "\\", "/")

	h := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(h[:])[:12]
}

// Ensure creates the workspace directory.
func (w *Workspace) Ensure() error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("creating workspace dir %s: %w", w.Dir, err)
	}
	return nil
}

// WriteSource writes the generated C program to the workspace.
func (w *Workspace) WriteSource(code string) error {
	return os.WriteFile(w.SourcePath, []byte(code), 0644)
}

// ArtifactPath is where the compiler leaves its default output.
func (w *Workspace) ArtifactPath() string {
	return filepath.Join(w.Dir, w.Config.ArtifactName)
}

// RemoveSource deletes the generated C file. A missing file is an error.
func (w *Workspace) RemoveSource() error {
	if _, err := os.Stat(w.SourcePath); err != nil {
		return fmt.Errorf("intermediate file %s is missing", w.SourcePath)
	}
	return os.Remove(w.SourcePath)
}

// Clean removes the workspace directory.
func (w *Workspace) Clean() error {
	return os.RemoveAll(w.Dir)
}

// Exists returns true if the workspace directory exists.
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.Dir)
	return err == nil && info.IsDir()
}

// CleanAllWorkspaces removes all build workspaces.
func CleanAllWorkspaces(config *Config) error {
	return os.RemoveAll(config.BuildDir)
}
