// Package transformer translates a DawnLang atom sequence into C statements.
package transformer

import (
	"fmt"
	"strings"
	"unicode"

	"dawnlang/dawn/dawnerr"
	"dawnlang/dawn/internal/transpiler"
)

type dawnTransformer struct {
	u      *transpiler.Unit
	blocks []*block
	closed *block
}

// NewDawnTransformer creates a new instance of Transformer for DawnLang.
func NewDawnTransformer() transpiler.Transformer {
	return &dawnTransformer{}
}

// Transform implements the transpiler.Transformer interface. It walks the atoms
// once; every construct reports how many atoms it consumed and the cursor skips them.
func (t *dawnTransformer) Transform(u *transpiler.Unit) error {
	u.Enter(dawnerr.PhaseConvert)
	t.u = u
	t.blocks = nil
	t.closed = nil

	for i := 0; i < len(u.Atoms); {
		n, err := t.transformAtom(i)
		if err != nil {
			return err
		}
		i += n
	}

	return t.closeRemainingBlocks()
}

func (t *dawnTransformer) transformAtom(i int) (int, error) {
	a := t.u.Atoms[i]
	if a.Kind != transpiler.AtomWord {
		if a.Is("}") {
			return t.transformCloseBrace(i)
		}
		return 0, t.u.FailAt(i, "unexpected "+a.Kind.String())
	}

	switch a.Text {
	case "print":
		return t.transformPrint(i)
	case "print_str":
		return t.transformPrintFormatted(i, "%s")
	case "print_int":
		return t.transformPrintFormatted(i, "%d")
	case "print_list_element":
		return t.transformPrintListElement(i)
	case "int":
		return t.transformDeclaration(i, transpiler.ClassInt)
	case "bool":
		return t.transformDeclaration(i, transpiler.ClassBool)
	case "string":
		return t.transformDeclaration(i, transpiler.ClassString)
	case "List<int>":
		return t.transformIntList(i)
	case "for":
		return t.transformFor(i)
	case "then":
		return t.transformThen(i)
	case "function":
		return t.transformFunction(i)
	case "if":
		return t.transformIf(i)
	case "else":
		return t.transformElse(i)
	case "include", "#include":
		// Already inlined by the module resolver.
		return 2, nil
	default:
		return t.transformIdentifier(i)
	}
}

// transformIdentifier handles reassignment of known variables and calls of known functions.
func (t *dawnTransformer) transformIdentifier(i int) (int, error) {
	name := t.u.Atoms[i].Text

	switch t.u.Symbols.Class(name) {
	case transpiler.ClassInt, transpiler.ClassBool:
		if i+1 < len(t.u.Atoms) && t.u.Atoms[i+1].Is("=") && t.sameStatement(i, i+1) {
			return t.transformAssignment(i)
		}
		return 0, t.u.FailAt(i, fmt.Sprintf("expected assignment to %s", name))
	case transpiler.ClassFunction:
		return t.transformCall(i)
	case transpiler.ClassNone:
		return 0, t.u.FailAt(i, "unresolved identifier")
	}
	return 0, t.u.FailAt(i, fmt.Sprintf("%s variable %s cannot be used as a statement", t.u.Symbols.Class(name), name))
}

// atom returns the atom at index i, failing when the construct is truncated.
func (t *dawnTransformer) atom(i int) (transpiler.Atom, error) {
	if i < 0 || i >= len(t.u.Atoms) {
		return transpiler.Atom{}, t.u.FailAt(i, "unexpected end of input")
	}
	return t.u.Atoms[i], nil
}

// expect fails unless the atom at i is the word or punctuation text.
func (t *dawnTransformer) expect(i int, text string) error {
	a, err := t.atom(i)
	if err != nil {
		return err
	}
	if !a.Is(text) {
		return t.u.FailAt(i, fmt.Sprintf("expected %q", text))
	}
	return nil
}

// name returns the identifier at i.
func (t *dawnTransformer) name(i int) (string, error) {
	a, err := t.atom(i)
	if err != nil {
		return "", err
	}
	if a.Kind != transpiler.AtomWord || !isIdentifier(a.Text) {
		return "", t.u.FailAt(i, "expected a name")
	}
	return a.Text, nil
}

func (t *dawnTransformer) sameStatement(i, j int) bool {
	return t.u.Atoms[i].Stmt == t.u.Atoms[j].Stmt
}

// statementEnd returns the index after the last atom of the statement containing i.
// A block close always ends a statement.
func (t *dawnTransformer) statementEnd(i int) int {
	j := i
	for j < len(t.u.Atoms) && t.sameStatement(i, j) && !t.u.Atoms[j].Is("}") {
		j++
	}
	return j
}

// expression joins the atoms [from, to) into one C expression.
func (t *dawnTransformer) expression(from, to int) (string, error) {
	if from >= to {
		return "", t.u.FailAt(from, "expected an expression")
	}
	parts := make([]string, 0, to-from)
	for _, a := range t.u.Atoms[from:to] {
		parts = append(parts, a.Text)
	}
	return strings.Join(parts, " "), nil
}

// arguments parses a parenthesised argument list whose first atom is at i.
// The opening parenthesis is never an atom, so the list runs up to the first ")".
// It returns the arguments and the number of atoms consumed, ")" included.
func (t *dawnTransformer) arguments(i int) ([]string, int, error) {
	var (
		args    []string
		current []string
	)
	for j := i; j < len(t.u.Atoms); j++ {
		a := t.u.Atoms[j]
		switch {
		case a.Is(")"):
			if len(current) > 0 {
				args = append(args, strings.Join(current, " "))
			} else if len(args) > 0 {
				return nil, 0, t.u.FailAt(j, "missing argument")
			}
			return args, j - i + 1, nil
		case a.Is(","):
			if len(current) == 0 {
				return nil, 0, t.u.FailAt(j, "missing argument")
			}
			args = append(args, strings.Join(current, " "))
			current = nil
		case a.Is("}"):
			return nil, 0, t.u.FailAt(j, `expected ")"`)
		default:
			current = append(current, a.Text)
		}
	}
	return nil, 0, t.u.FailAt(len(t.u.Atoms), `expected ")"`)
}

// isIdentifier reports whether s is an ASCII identifier valid in both DawnLang and C.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

var _ transpiler.Transformer = (*dawnTransformer)(nil)
