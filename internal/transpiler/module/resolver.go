// Package module resolves include directives into a single atom sequence.
package module

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dawnlang/dawn/dawnerr"
	"dawnlang/dawn/internal/transpiler"
	"dawnlang/dawn/internal/transpiler/lexer"
)

// RemoteFetcher makes a remote include available on disk.
type RemoteFetcher interface {
	// FetchFile returns the local path of the file named by ref.
	FetchFile(ref string) (string, error)
}

// Resolver loads a root file and inlines every file it includes.
//
// Example usage:
//
//	resolver := NewResolver(fetcher, logger)
//	atoms, err := resolver.Load("main.dawn")
type Resolver struct {
	fetcher RemoteFetcher // nil disables remote includes
	logger  *slog.Logger
}

// NewResolver creates a Resolver. fetcher may be nil.
func NewResolver(fetcher RemoteFetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{fetcher: fetcher, logger: logger}
}

// source is a lexed file together with the include directives found in it.
type source struct {
	atoms    []transpiler.Atom
	includes map[int]string // index of the directive keyword -> graph path of the target
}

// Load reads path, resolves its includes recursively and returns the inlined atom sequence.
// A missing root file returns a SourceNotFoundError.
func (r *Resolver) Load(path string) ([]transpiler.Atom, error) {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return nil, &dawnerr.SourceNotFoundError{Path: path}
	}
	rootPath, err := filepath.Abs(path)
	if err != nil {
		return nil, dawnerr.NewPhaseError(dawnerr.PhaseRead, err)
	}

	g := NewGraph(rootPath)
	sources := make(map[string]*source)
	if err := r.discover(g, g.Root, path, sources); err != nil {
		return nil, err
	}

	if err := g.DetectCycles(); err != nil {
		return nil, dawnerr.NewPhaseError(dawnerr.PhaseInclude, err)
	}

	inlined := map[string]bool{rootPath: true}
	atoms := r.splice(rootPath, sources, inlined)
	renumberStatements(atoms)

	r.logger.Debug("includes resolved", "root", path, "files", len(g.Nodes), "atoms", len(atoms))
	return atoms, nil
}

// discover lexes the file of node and walks its includes depth first.
// displayPath is the path recorded on atoms for diagnostics.
func (r *Resolver) discover(g *Graph, node *Node, displayPath string, sources map[string]*source) error {
	lines, err := lexer.ReadLines(node.Path)
	if err != nil {
		return dawnerr.NewPhaseError(dawnerr.PhaseRead, fmt.Errorf("reading %s: %w", displayPath, err))
	}

	src := &source{
		atoms:    lexer.Lex(displayPath, lines),
		includes: make(map[int]string),
	}
	sources[node.Path] = src

	for i := 0; i < len(src.atoms); i++ {
		if !IsIncludeDirective(src.atoms[i]) {
			continue
		}
		if i+1 >= len(src.atoms) {
			a := src.atoms[i]
			return dawnerr.NewPhaseErrorAt(dawnerr.PhaseInclude, a.File, a.Line, i, a.Text, "include without a path")
		}

		target := src.atoms[i+1]
		targetPath, targetDisplay, err := r.resolveTarget(node.Path, strings.Trim(target.Text, `"`))
		if err != nil {
			return &dawnerr.PhaseError{
				Phase:     dawnerr.PhaseInclude,
				File:      target.File,
				Line:      target.Line,
				AtomIndex: i + 1,
				Atom:      target.Text,
				Err:       err,
			}
		}
		src.includes[i] = targetPath
		r.logger.Debug("include", "from", displayPath, "target", targetDisplay)

		_, seen := g.Nodes[targetPath]
		child := g.AddNode(targetPath)
		g.AddEdge(node, child)
		if !seen {
			if err := r.discover(g, child, targetDisplay, sources); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveTarget maps an include path to the absolute path of the file on disk.
// Relative local paths are relative to the including file.
func (r *Resolver) resolveTarget(includingPath, target string) (string, string, error) {
	if target == "" {
		return "", "", fmt.Errorf("empty include path")
	}

	if IsRemote(target) {
		if r.fetcher == nil {
			return "", "", fmt.Errorf("remote include %s: no fetcher configured", target)
		}
		local, err := r.fetcher.FetchFile(target)
		if err != nil {
			return "", "", fmt.Errorf("fetching %s: %w", target, err)
		}
		return local, target, nil
	}

	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(includingPath), resolved)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", "", &FileNotFoundError{IncludePath: target}
	}
	if info.IsDir() {
		return "", "", fmt.Errorf("include %s is a directory", target)
	}
	resolved = filepath.Clean(resolved)
	return resolved, resolved, nil
}

// splice returns the atoms of path with every include directive replaced by the
// atoms of the included file. A file already inlined contributes nothing the second time.
func (r *Resolver) splice(path string, sources map[string]*source, inlined map[string]bool) []transpiler.Atom {
	src := sources[path]
	out := make([]transpiler.Atom, 0, len(src.atoms))

	for i := 0; i < len(src.atoms); i++ {
		target, ok := src.includes[i]
		if !ok {
			out = append(out, src.atoms[i])
			continue
		}
		i++ // skip the path atom
		if inlined[target] {
			continue
		}
		inlined[target] = true
		out = append(out, r.splice(target, sources, inlined)...)
	}
	return out
}

// renumberStatements gives statement ordinals that are unique across files,
// so atoms of neighbouring files never look like one statement.
func renumberStatements(atoms []transpiler.Atom) {
	stmt := -1
	prevFile := ""
	prevStmt := -1
	for i := range atoms {
		if i == 0 || atoms[i].File != prevFile || atoms[i].Stmt != prevStmt {
			stmt++
		}
		prevFile, prevStmt = atoms[i].File, atoms[i].Stmt
		atoms[i].Stmt = stmt
	}
}

// IsIncludeDirective reports whether a starts an include directive.
func IsIncludeDirective(a transpiler.Atom) bool {
	return a.Is("include") || a.Is("#include")
}

// IsRemote reports whether an include path names a file in a remote repository,
// e.g. "github.com/acme/dawnlib/math.dawn@v1.0.0".
func IsRemote(target string) bool {
	if filepath.IsAbs(target) || strings.HasPrefix(target, ".") {
		return false
	}
	at := strings.LastIndex(target, "@")
	if at <= 0 {
		return false
	}
	host := strings.SplitN(target[:at], "/", 2)[0]
	return strings.Contains(host, ".") && strings.Count(target[:at], "/") >= 3
}

// FileNotFoundError is returned when an included file cannot be found.
type FileNotFoundError struct {
	IncludePath string
}

func (e *FileNotFoundError) Error() string {
	return "included file not found: " + e.IncludePath
}

var _ transpiler.SourceLoader = (*Resolver)(nil)
