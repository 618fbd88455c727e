package generator

import (
	"bytes"

	"dawnlang/dawn/internal/transpiler"
)

type cCodeGenerator struct {
}

// NewCCodeGenerator creates a new instance of CodeGenerator that generates C code.
func NewCCodeGenerator() transpiler.CodeGenerator {
	return &cCodeGenerator{}
}

// Generate implements the CodeGenerator interface. The layout is the include
// lines, a blank line, the function prototypes followed by a blank line, then
// one emitted statement per line.
func (g *cCodeGenerator) Generate(u *transpiler.Unit) (string, error) {
	var buf bytes.Buffer
	for _, h := range u.Imports.Headers() {
		buf.WriteString("#include ")
		buf.WriteString(h)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')

	if len(u.Prototypes) > 0 {
		for _, p := range u.Prototypes {
			buf.WriteString(p)
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}

	for _, line := range u.Lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}

var _ transpiler.CodeGenerator = (*cCodeGenerator)(nil)
