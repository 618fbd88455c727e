package transpiler

import (
	"errors"
	"io"
	"log/slog"

	"dawnlang/dawn/dawnerr"
)

// Unit holds all state of one build invocation. A fresh Unit is created per
// build and threaded through every phase, so concurrent builds never share state.
type Unit struct {
	// File is the root source file.
	File string

	// Atoms is the flat atom sequence after includes were inlined. Phases read it but never modify it.
	Atoms []Atom

	Symbols *SymbolTable
	Imports *ImportSet

	// Prototypes are forward declarations of user functions, in declaration order.
	Prototypes []string

	// Lines are the emitted C statements, in order.
	Lines []string

	// Phase is the phase currently running.
	Phase dawnerr.Phase

	Logger *slog.Logger
}

// NewUnit creates an empty Unit for the given root file.
// A nil logger discards all output.
func NewUnit(file string, logger *slog.Logger) *Unit {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Unit{
		File:    file,
		Symbols: NewSymbolTable(),
		Imports: NewImportSet(),
		Phase:   dawnerr.PhaseRead,
		Logger:  logger,
	}
}

// Enter records that phase has started.
func (u *Unit) Enter(phase dawnerr.Phase) {
	u.Phase = phase
	u.Logger.Debug("phase", "name", string(phase), "code", phase.Code())
}

// Fail wraps err as a fault of the current phase. A missing source file is
// reported as is, it is not a phase fault.
func (u *Unit) Fail(err error) error {
	if err == nil {
		return nil
	}
	var notFound *dawnerr.SourceNotFoundError
	if errors.As(err, &notFound) {
		return notFound
	}
	return dawnerr.NewPhaseError(u.Phase, err)
}

// FailAt creates a fault of the current phase pointing at atom index i.
func (u *Unit) FailAt(i int, msg string) error {
	if i >= 0 && i < len(u.Atoms) {
		a := u.Atoms[i]
		return dawnerr.NewPhaseErrorAt(u.Phase, a.File, a.Line, i, a.Text, msg)
	}
	return dawnerr.NewPhaseErrorAt(u.Phase, u.File, 0, i, "<end of input>", msg)
}

// Emit appends one C statement.
func (u *Unit) Emit(line string) {
	u.Lines = append(u.Lines, line)
}

// SourceLoader reads a source file, inlines its includes and returns the atom sequence.
type SourceLoader interface {
	Load(path string) ([]Atom, error)
}

// Analyzer collects declarations and required imports before translation.
type Analyzer interface {
	Analyze(u *Unit) error
}

// Transformer translates the atom sequence into C statements.
type Transformer interface {
	Transform(u *Unit) error
}

// CodeGenerator renders the C source text of a translated unit.
type CodeGenerator interface {
	Generate(u *Unit) (string, error)
}

// Transpiler defines the high-level interface for the DawnLang to C conversion.
type Transpiler interface {
	Transpile(path string) (string, error)
}

// DawnToCTranspiler orchestrates the transpilation process.
type DawnToCTranspiler struct {
	loader      SourceLoader
	analyzer    Analyzer
	transformer Transformer
	generator   CodeGenerator
	logger      *slog.Logger
}

// NewDawnToCTranspiler creates a new instance of DawnToCTranspiler with its dependencies.
func NewDawnToCTranspiler(
	loader SourceLoader,
	analyzer Analyzer,
	transformer Transformer,
	generator CodeGenerator,
	logger *slog.Logger,
) *DawnToCTranspiler {
	return &DawnToCTranspiler{
		loader:      loader,
		analyzer:    analyzer,
		transformer: transformer,
		generator:   generator,
		logger:      logger,
	}
}

// Transpile executes the full transpilation pipeline for the file at path.
func (t *DawnToCTranspiler) Transpile(path string) (string, error) {
	_, code, err := t.TranspileUnit(path)
	return code, err
}

// TranspileUnit is like Transpile but also returns the unit, which stays
// populated up to the failing phase when an error is returned.
func (t *DawnToCTranspiler) TranspileUnit(path string) (*Unit, string, error) {
	u := NewUnit(path, t.logger)

	u.Enter(dawnerr.PhaseRead)
	atoms, err := t.loader.Load(path)
	if err != nil {
		return u, "", u.Fail(err)
	}
	u.Atoms = atoms
	u.Logger.Debug("loaded source", "file", path, "atoms", len(atoms))

	if err := t.analyzer.Analyze(u); err != nil {
		return u, "", u.Fail(err)
	}

	if err := t.transformer.Transform(u); err != nil {
		return u, "", u.Fail(err)
	}

	u.Enter(dawnerr.PhaseWriteC)
	code, err := t.generator.Generate(u)
	if err != nil {
		return u, "", u.Fail(err)
	}
	u.Logger.Debug("generated C", "lines", len(u.Lines), "headers", len(u.Imports.Headers()))

	return u, code, nil
}

var _ Transpiler = (*DawnToCTranspiler)(nil)
