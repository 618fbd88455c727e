package transpiler_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dawnlang/dawn/dawnerr"
	"dawnlang/dawn/internal/transpiler"
	"dawnlang/dawn/internal/transpiler/analyzer"
	"dawnlang/dawn/internal/transpiler/generator"
	"dawnlang/dawn/internal/transpiler/module"
	"dawnlang/dawn/internal/transpiler/transformer"
)

func newTranspiler() *transpiler.DawnToCTranspiler {
	return transpiler.NewDawnToCTranspiler(
		module.NewResolver(nil, nil),
		analyzer.NewDawnAnalyzer(),
		transformer.NewDawnTransformer(),
		generator.NewCCodeGenerator(),
		nil,
	)
}

func TestTranspileUnit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.dawn")
	require.NoError(t, os.WriteFile(path, []byte("print_str(\"hi\");\nprint_str(\"there\");\n"), 0644))

	u, code, err := newTranspiler().TranspileUnit(path)
	require.NoError(t, err)
	assert.Equal(t, dawnerr.PhaseWriteC, u.Phase)
	assert.Equal(t, []string{"<stdio.h>"}, u.Imports.Headers())
	assert.Equal(t, "#include <stdio.h>\n\nprintf(\"%s\\n\", \"hi\");\nprintf(\"%s\\n\", \"there\");\n", code)
}

func TestTranspileUnit_SourceNotFound(t *testing.T) {
	u, code, err := newTranspiler().TranspileUnit(filepath.Join(t.TempDir(), "missing.dawn"))
	require.Error(t, err)

	var notFound *dawnerr.SourceNotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Empty(t, code)
	assert.Equal(t, dawnerr.PhaseRead, u.Phase)
	assert.Empty(t, u.Lines)
}

func TestTranspileUnit_FaultKeepsPhase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.dawn")
	require.NoError(t, os.WriteFile(path, []byte("int a = 1;\nfunction\n"), 0644))

	u, _, err := newTranspiler().TranspileUnit(path)
	require.Error(t, err)

	var pe *dawnerr.PhaseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "fs100", pe.Code())
	assert.Equal(t, dawnerr.PhaseFunctions, u.Phase)
}

func TestUnit_FailAt(t *testing.T) {
	u := transpiler.NewUnit("main.dawn", nil)
	u.Atoms = []transpiler.Atom{{Text: "x", Kind: transpiler.AtomWord, File: "lib.dawn", Line: 4}}
	u.Enter(dawnerr.PhaseConvert)

	var pe *dawnerr.PhaseError
	require.True(t, errors.As(u.FailAt(0, "bad"), &pe))
	assert.Equal(t, "lib.dawn", pe.File)
	assert.Equal(t, 4, pe.Line)
	assert.Equal(t, "x", pe.Atom)

	require.True(t, errors.As(u.FailAt(5, "truncated"), &pe))
	assert.Equal(t, "main.dawn", pe.File)
	assert.Equal(t, "<end of input>", pe.Atom)
	assert.Equal(t, 5, pe.AtomIndex)
}
