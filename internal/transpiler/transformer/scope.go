package transformer

import (
	"fmt"

	"dawnlang/dawn/internal/transpiler"
)

type blockKind int

const (
	blockFunction blockKind = iota
	blockLoop
	blockIf
	blockElse
)

func (k blockKind) String() string {
	switch k {
	case blockFunction:
		return "function"
	case blockLoop:
		return "loop"
	case blockIf:
		return "if"
	case blockElse:
		return "else"
	}
	return "unknown"
}

// block is an open C block. A loop stays open after its "}" until "then end".
type block struct {
	kind        blockKind
	opener      int
	braceClosed bool
}

func (t *dawnTransformer) push(kind blockKind, opener int) {
	t.blocks = append(t.blocks, &block{kind: kind, opener: opener})
}

func (t *dawnTransformer) top() *block {
	if len(t.blocks) == 0 {
		return nil
	}
	return t.blocks[len(t.blocks)-1]
}

func (t *dawnTransformer) pop() *block {
	b := t.top()
	t.blocks = t.blocks[:len(t.blocks)-1]
	t.closed = b
	t.u.Emit("}")
	return b
}

// transformCloseBrace applies a "}" to the innermost block.
func (t *dawnTransformer) transformCloseBrace(i int) (int, error) {
	b := t.top()
	if b != nil && b.kind == blockLoop && b.braceClosed {
		t.pop()
		b = t.top()
	}
	if b == nil {
		return 0, t.u.FailAt(i, "unexpected }")
	}
	if b.kind == blockLoop {
		b.braceClosed = true
		t.closed = nil
		return 1, nil
	}
	t.pop()
	return 1, nil
}

// transformFor handles for V from LO to HI. Both bounds are inclusive.
func (t *dawnTransformer) transformFor(i int) (int, error) {
	v, err := t.name(i + 1)
	if err != nil {
		return 0, err
	}
	if err := t.expect(i+2, "from"); err != nil {
		return 0, err
	}
	lo, err := t.bound(i + 3)
	if err != nil {
		return 0, err
	}
	if err := t.expect(i+4, "to"); err != nil {
		return 0, err
	}
	hi, err := t.bound(i + 5)
	if err != nil {
		return 0, err
	}
	if err := t.u.Symbols.Declare(v, transpiler.ClassInt); err != nil {
		return 0, t.u.FailAt(i+1, err.Error())
	}

	t.u.Emit(fmt.Sprintf("for(int %s = %s; %s <= %s; %s++){", v, lo, v, hi, v))
	t.push(blockLoop, i)
	return 6, nil
}

// bound returns a loop bound: an integer literal or a known int variable.
func (t *dawnTransformer) bound(i int) (string, error) {
	a, err := t.atom(i)
	if err != nil {
		return "", err
	}
	if a.Kind == transpiler.AtomWord {
		if isInteger(a.Text) || t.u.Symbols.Is(a.Text, transpiler.ClassInt) {
			return a.Text, nil
		}
	}
	return "", t.u.FailAt(i, "loop bound must be an integer or an int variable")
}

// transformThen handles "then end", closing the innermost loop.
func (t *dawnTransformer) transformThen(i int) (int, error) {
	if err := t.expect(i+1, "end"); err != nil {
		return 0, err
	}
	if b := t.top(); b == nil || b.kind != blockLoop {
		return 0, t.u.FailAt(i, "then end without an open loop")
	}
	t.pop()
	return 2, nil
}

// transformIf handles if A OP B; the condition is the rest of the statement.
func (t *dawnTransformer) transformIf(i int) (int, error) {
	end := t.statementEnd(i)
	cond, err := t.expression(i+1, end)
	if err != nil {
		return 0, err
	}
	t.u.Emit(fmt.Sprintf("if(%s){", cond))
	t.push(blockIf, i)
	return end - i, nil
}

// transformElse handles else and else if. It must directly follow the "}" of an if block.
func (t *dawnTransformer) transformElse(i int) (int, error) {
	if i == 0 || !t.u.Atoms[i-1].Is("}") || t.closed == nil || t.closed.kind != blockIf {
		return 0, t.u.FailAt(i, "else without a preceding if")
	}
	if i+1 < len(t.u.Atoms) && t.u.Atoms[i+1].Is("if") && t.sameStatement(i, i+1) {
		t.u.Emit("else")
		return 1, nil
	}
	t.u.Emit("else{")
	t.push(blockElse, i)
	return 1, nil
}

// closeRemainingBlocks closes brace-closed loops left open at the end of input.
func (t *dawnTransformer) closeRemainingBlocks() error {
	for len(t.blocks) > 0 {
		b := t.top()
		if b.kind != blockLoop || !b.braceClosed {
			return t.u.FailAt(b.opener, fmt.Sprintf("%s block is never closed", b.kind))
		}
		t.pop()
	}
	return nil
}

func isInteger(s string) bool {
	if len(s) > 1 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
