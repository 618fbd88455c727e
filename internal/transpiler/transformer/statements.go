package transformer

import (
	"fmt"
	"strings"

	"dawnlang/dawn/internal/transpiler"
)

// transformPrint handles print(LITERAL); the literal is passed to printf unchanged.
func (t *dawnTransformer) transformPrint(i int) (int, error) {
	args, n, err := t.arguments(i + 1)
	if err != nil {
		return 0, err
	}
	if len(args) != 1 {
		return 0, t.u.FailAt(i, "print takes one argument")
	}
	t.u.Emit(fmt.Sprintf("printf(%s);", args[0]))
	return 1 + n, nil
}

// transformPrintFormatted handles print_str(X) and print_int(X).
func (t *dawnTransformer) transformPrintFormatted(i int, verb string) (int, error) {
	args, n, err := t.arguments(i + 1)
	if err != nil {
		return 0, err
	}
	if len(args) != 1 {
		return 0, t.u.FailAt(i, t.u.Atoms[i].Text+" takes one argument")
	}
	t.u.Emit(fmt.Sprintf(`printf("%s\n", %s);`, verb, args[0]))
	return 1 + n, nil
}

// transformPrintListElement handles print_list_element(LIST, INDEX).
func (t *dawnTransformer) transformPrintListElement(i int) (int, error) {
	args, n, err := t.arguments(i + 1)
	if err != nil {
		return 0, err
	}
	if len(args) != 2 {
		return 0, t.u.FailAt(i, "print_list_element takes a list and an index")
	}
	if !t.u.Symbols.Is(args[0], transpiler.ClassIntList) {
		return 0, t.u.FailAt(i+1, fmt.Sprintf("%s is not a List<int>", args[0]))
	}
	t.u.Emit(fmt.Sprintf(`printf("%%d\n", %s[%s]);`, args[0], args[1]))
	return 1 + n, nil
}

// cTypes maps declaration keywords to the C declaration of name.
var cTypes = map[transpiler.SymbolClass]func(name string) string{
	transpiler.ClassInt:    func(name string) string { return "int " + name },
	transpiler.ClassBool:   func(name string) string { return "bool " + name },
	transpiler.ClassString: func(name string) string { return "char " + name + "[]" },
}

// transformDeclaration handles int, bool and string declarations: TYPE NAME = EXPR.
func (t *dawnTransformer) transformDeclaration(i int, class transpiler.SymbolClass) (int, error) {
	name, err := t.name(i + 1)
	if err != nil {
		return 0, err
	}
	if err := t.expect(i+2, "="); err != nil {
		return 0, err
	}
	end := t.statementEnd(i)
	value, err := t.expression(i+3, end)
	if err != nil {
		return 0, err
	}
	if err := t.u.Symbols.Declare(name, class); err != nil {
		return 0, t.u.FailAt(i+1, err.Error())
	}

	t.u.Emit(fmt.Sprintf("%s = %s;", cTypes[class](name), value))
	return end - i, nil
}

// transformIntList handles List<int> NAME = [v1, v2, ...]. The element atoms,
// commas included, are copied verbatim up to the first "]".
func (t *dawnTransformer) transformIntList(i int) (int, error) {
	name, err := t.name(i + 1)
	if err != nil {
		return 0, err
	}
	if err := t.expect(i+2, "="); err != nil {
		return 0, err
	}
	if err := t.expect(i+3, "["); err != nil {
		return 0, err
	}

	var sb strings.Builder
	j := i + 4
	for ; ; j++ {
		a, err := t.atom(j)
		if err != nil {
			return 0, err
		}
		if a.Is("]") {
			break
		}
		if a.Is("}") {
			return 0, t.u.FailAt(j, `expected "]"`)
		}
		sb.WriteString(a.Text)
	}
	if err := t.u.Symbols.Declare(name, transpiler.ClassIntList); err != nil {
		return 0, t.u.FailAt(i+1, err.Error())
	}

	t.u.Emit(fmt.Sprintf("int %s[] = {%s};", name, sb.String()))
	return j - i + 1, nil
}

// transformAssignment handles NAME = EXPR for known int and bool variables.
func (t *dawnTransformer) transformAssignment(i int) (int, error) {
	end := t.statementEnd(i)
	value, err := t.expression(i+2, end)
	if err != nil {
		return 0, err
	}
	t.u.Emit(fmt.Sprintf("%s = %s;", t.u.Atoms[i].Text, value))
	return end - i, nil
}
