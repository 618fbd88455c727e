package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dawnlang/dawn/dawnerr"
	"dawnlang/dawn/internal/transpiler"
	"dawnlang/dawn/internal/transpiler/analyzer"
	"dawnlang/dawn/internal/transpiler/lexer"
)

func newUnit(lines ...string) *transpiler.Unit {
	u := transpiler.NewUnit("test.dawn", nil)
	u.Atoms = lexer.Lex("test.dawn", lines)
	return u
}

func TestScanFunctions(t *testing.T) {
	u := newUnit(
		"function main() {",
		"add(a);",
		"}",
		"function add(int x) {",
		"}",
		"function greet(string s) {",
		"}",
	)

	require.NoError(t, analyzer.ScanFunctions(u))
	assert.Equal(t, []string{"add", "greet"}, u.Symbols.Names(transpiler.ClassFunction))
	assert.False(t, u.Symbols.Is("main", transpiler.ClassFunction))
}

func TestScanFunctions_TrailingKeyword(t *testing.T) {
	u := newUnit("function")

	err := analyzer.ScanFunctions(u)
	var pe *dawnerr.PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, pe.AtomIndex)
}

func TestScanFunctions_InvalidName(t *testing.T) {
	u := newUnit(`function "oops"() {`)

	err := analyzer.ScanFunctions(u)
	var pe *dawnerr.PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.AtomIndex)
}

func TestResolveImports(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected []string
	}{
		{
			name:     "no built-ins",
			lines:    []string{"int a = 1;"},
			expected: nil,
		},
		{
			name:     "print_str twice yields one stdio",
			lines:    []string{`string s = "x";`, "print_str(s);", "print_str(s);"},
			expected: []string{"<stdio.h>"},
		},
		{
			name:     "table order, not source order",
			lines:    []string{"bool b = true;", "print_int(1);"},
			expected: []string{"<stdio.h>", "<stdbool.h>"},
		},
		{
			name:     "keyword inside a literal does not count",
			lines:    []string{`string s = "print bool";`},
			expected: nil,
		},
		{
			name:     "list element printing",
			lines:    []string{"List<int> l = [1];", "print_list_element(l, 0);"},
			expected: []string{"<stdio.h>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnit(tt.lines...)
			analyzer.ResolveImports(u)
			if tt.expected == nil {
				assert.Empty(t, u.Imports.Headers())
				return
			}
			assert.Equal(t, tt.expected, u.Imports.Headers())
		})
	}
}

func TestAnalyze_SetsPhases(t *testing.T) {
	u := newUnit("function helper() {", "}", `print("x");`)

	require.NoError(t, analyzer.NewDawnAnalyzer().Analyze(u))
	assert.Equal(t, dawnerr.PhaseImports, u.Phase)
	assert.True(t, u.Symbols.Is("helper", transpiler.ClassFunction))
	assert.Equal(t, []string{"<stdio.h>"}, u.Imports.Headers())
}

func TestAnalyze_FailsInFunctionScan(t *testing.T) {
	u := newUnit("int f = 1;", "function f() {", "}")
	require.NoError(t, u.Symbols.Declare("f", transpiler.ClassInt))

	err := analyzer.NewDawnAnalyzer().Analyze(u)
	var pe *dawnerr.PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "fs100", pe.Code())
}
