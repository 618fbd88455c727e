// Package analyzer collects declarations and required C headers before translation.
package analyzer

import (
	"dawnlang/dawn/dawnerr"
	"dawnlang/dawn/internal/transpiler"
)

// EntryFunction is the function that becomes the C entry point.
const EntryFunction = "main"

// ImportRule maps a DawnLang keyword to the C header it needs.
type ImportRule struct {
	Keyword string
	Header  string
}

// ImportTable lists the built-in operations that require a header.
// Headers are added in table order.
var ImportTable = []ImportRule{
	{Keyword: "print", Header: "<stdio.h>"},
	{Keyword: "print_int", Header: "<stdio.h>"},
	{Keyword: "print_str", Header: "<stdio.h>"},
	{Keyword: "print_list_element", Header: "<stdio.h>"},
	{Keyword: "bool", Header: "<stdbool.h>"},
}

type dawnAnalyzer struct{}

// NewDawnAnalyzer creates a new transpiler.Analyzer implementation.
func NewDawnAnalyzer() transpiler.Analyzer {
	return &dawnAnalyzer{}
}

// Analyze implements the transpiler.Analyzer interface.
// Function names are collected before any translation so calls resolve
// regardless of declaration order.
func (a *dawnAnalyzer) Analyze(u *transpiler.Unit) error {
	u.Enter(dawnerr.PhaseFunctions)
	if err := ScanFunctions(u); err != nil {
		return err
	}
	u.Logger.Debug("functions", "names", u.Symbols.Names(transpiler.ClassFunction))

	u.Enter(dawnerr.PhaseImports)
	ResolveImports(u)
	u.Logger.Debug("imports", "headers", u.Imports.Headers())
	return nil
}

// ScanFunctions registers the name following every "function" keyword,
// except the entry function.
func ScanFunctions(u *transpiler.Unit) error {
	for i, a := range u.Atoms {
		if !a.Is("function") {
			continue
		}
		if i+1 >= len(u.Atoms) {
			return u.FailAt(i, "function without a name")
		}
		name := u.Atoms[i+1]
		if name.Kind != transpiler.AtomWord {
			return u.FailAt(i+1, "invalid function name")
		}
		if name.Text == EntryFunction {
			continue
		}
		if err := u.Symbols.Declare(name.Text, transpiler.ClassFunction); err != nil {
			return u.FailAt(i+1, err.Error())
		}
	}
	return nil
}

// ResolveImports adds the header of every ImportTable keyword used in the unit.
func ResolveImports(u *transpiler.Unit) {
	used := make(map[string]bool)
	for _, a := range u.Atoms {
		if a.Kind == transpiler.AtomWord {
			used[a.Text] = true
		}
	}

	for _, rule := range ImportTable {
		if used[rule.Keyword] && !u.Imports.Contains(rule.Header) {
			u.Imports.Add(rule.Header)
		}
	}
}

var _ transpiler.Analyzer = (*dawnAnalyzer)(nil)
