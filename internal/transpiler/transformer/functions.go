package transformer

import (
	"fmt"
	"strings"

	"dawnlang/dawn/internal/transpiler"
)

// paramTypes maps parameter type keywords to their symbol class and C rendering.
var paramTypes = map[string]struct {
	class  transpiler.SymbolClass
	render func(name string) string
}{
	"int":    {transpiler.ClassInt, func(name string) string { return "int " + name }},
	"string": {transpiler.ClassString, func(name string) string { return "char " + name + "[]" }},
}

// transformFunction handles function main() and function NAME(TYPE NAME, ...).
func (t *dawnTransformer) transformFunction(i int) (int, error) {
	if len(t.blocks) > 0 {
		return 0, t.u.FailAt(i, "functions must be declared at the top level")
	}
	name, err := t.name(i + 1)
	if err != nil {
		return 0, err
	}

	params, n, err := t.parameters(i + 2)
	if err != nil {
		return 0, err
	}

	if name == "main" {
		if len(params) > 0 {
			return 0, t.u.FailAt(i+2, "main takes no parameters")
		}
		t.u.Emit("int main(){")
	} else {
		signature := fmt.Sprintf("void %s(%s)", name, strings.Join(params, ", "))
		t.u.Prototypes = append(t.u.Prototypes, signature+";")
		t.u.Emit(signature + "{")
	}

	t.push(blockFunction, i)
	return 2 + n, nil
}

// parameters parses "TYPE NAME, TYPE NAME)" starting at i, registering every
// parameter in its symbol class. It returns the C parameters and the atoms consumed.
func (t *dawnTransformer) parameters(i int) ([]string, int, error) {
	var params []string
	j := i
	for {
		a, err := t.atom(j)
		if err != nil {
			return nil, 0, err
		}
		if a.Is(")") {
			return params, j - i + 1, nil
		}
		if len(params) > 0 {
			if !a.Is(",") {
				return nil, 0, t.u.FailAt(j, `expected "," or ")"`)
			}
			j++
			if a, err = t.atom(j); err != nil {
				return nil, 0, err
			}
		}

		pt, ok := paramTypes[a.Text]
		if !ok || a.Kind != transpiler.AtomWord {
			return nil, 0, t.u.FailAt(j, "expected parameter type int or string")
		}
		name, err := t.name(j + 1)
		if err != nil {
			return nil, 0, err
		}
		if err := t.u.Symbols.Declare(name, pt.class); err != nil {
			return nil, 0, t.u.FailAt(j+1, err.Error())
		}
		params = append(params, pt.render(name))
		j += 2
	}
}

// transformCall handles NAME(args) for a known function. Arguments are read in
// place; nothing is removed from the atom sequence, so repeated calls see the same atoms.
func (t *dawnTransformer) transformCall(i int) (int, error) {
	args, n, err := t.arguments(i + 1)
	if err != nil {
		return 0, err
	}
	for k, arg := range args {
		if isIdentifier(arg) && !t.u.Symbols.IsVariable(arg) && arg != "true" && arg != "false" {
			return 0, t.u.FailAt(i, fmt.Sprintf("argument %d: unresolved identifier %s", k+1, arg))
		}
	}
	t.u.Emit(fmt.Sprintf("%s(%s);", t.u.Atoms[i].Text, strings.Join(args, ", ")))
	return 1 + n, nil
}
