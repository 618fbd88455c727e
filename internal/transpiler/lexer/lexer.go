// Package lexer turns DawnLang source lines into a flat atom sequence.
package lexer

import (
	"bufio"
	"os"
	"strings"

	"github.com/antlr4-go/antlr/v4"

	"dawnlang/dawn/internal/transpiler"
)

// separators flush the pending atom and are dropped.
// punctuation flushes the pending atom and becomes an atom itself.
var (
	separators  = map[rune]bool{';': true, ' ': true, '\t': true, '\r': true, '(': true, '{': true}
	punctuation = map[rune]bool{',': true, ')': true, '}': true, '[': true, ']': true}
)

// Lexer splits source lines into atoms.
type Lexer struct {
	file  string
	atoms []transpiler.Atom
	line  int
	stmt  int
	sb    strings.Builder
}

// Lex returns the atoms of lines. file is recorded on every atom for diagnostics.
func Lex(file string, lines []string) []transpiler.Atom {
	l := &Lexer{file: file}
	for i, line := range lines {
		l.line = i + 1
		l.lexLine(line)
	}
	return l.atoms
}

// ReadLines reads path line by line.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// IsComment reports whether the whole line is a comment.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "//")
}

func (l *Lexer) lexLine(line string) {
	// Decided once, before any character is looked at.
	if IsComment(line) {
		return
	}
	if !strings.HasSuffix(line, ";") {
		line += ";"
	}

	input := antlr.NewInputStream(line)
	quoted := false
	escaped := false

	for input.LA(1) != antlr.TokenEOF {
		ch := rune(input.LA(1))
		input.Consume()

		if quoted {
			l.sb.WriteRune(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				quoted = false
			}
			continue
		}

		switch {
		case ch == '"':
			quoted = true
			l.sb.WriteRune(ch)
		case separators[ch]:
			l.flush()
			if ch == ';' || ch == '{' {
				l.stmt++
			}
		case punctuation[ch]:
			l.flush()
			l.push(string(ch), transpiler.AtomPunct)
			if ch == '}' {
				l.stmt++
			}
		default:
			l.sb.WriteRune(ch)
		}
	}

	// An unterminated literal still ends at the end of its line.
	l.flush()
	l.stmt++
}

func (l *Lexer) flush() {
	if l.sb.Len() == 0 {
		return
	}
	text := l.sb.String()
	l.sb.Reset()

	kind := transpiler.AtomWord
	if strings.HasPrefix(text, `"`) {
		kind = transpiler.AtomString
	}
	l.push(text, kind)
}

func (l *Lexer) push(text string, kind transpiler.AtomKind) {
	l.atoms = append(l.atoms, transpiler.Atom{
		Text: text,
		Kind: kind,
		File: l.file,
		Line: l.line,
		Stmt: l.stmt,
	})
}
