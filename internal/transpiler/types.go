package transpiler

import (
	"fmt"
	"sort"
)

// AtomKind classifies an atom produced by the lexer.
type AtomKind int

const (
	AtomWord   AtomKind = iota // identifiers, keywords, numbers and operator runs
	AtomString                 // quoted literal, quotes included
	AtomPunct                  // one of , ) } [ ]
)

func (k AtomKind) String() string {
	switch k {
	case AtomWord:
		return "word"
	case AtomString:
		return "string"
	case AtomPunct:
		return "punct"
	}
	return fmt.Sprintf("AtomKind(%d)", int(k))
}

// Atom is the smallest lexical unit of DawnLang source.
type Atom struct {
	Text string
	Kind AtomKind
	File string // source file the atom came from
	Line int    // 1-based source line
	Stmt int    // statement ordinal; atoms of one statement share it
}

func (a Atom) String() string {
	return a.Text
}

// Is reports whether the atom is a word or punctuation with the given text.
// Quoted literals never match, so a string "}" is not a block close.
func (a Atom) Is(text string) bool {
	return a.Kind != AtomString && a.Text == text
}

// SymbolClass is the category a declared name belongs to.
type SymbolClass int

const (
	ClassNone SymbolClass = iota
	ClassInt
	ClassString
	ClassBool
	ClassIntList
	ClassFunction
)

func (c SymbolClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassInt:
		return "int"
	case ClassString:
		return "string"
	case ClassBool:
		return "bool"
	case ClassIntList:
		return "List<int>"
	case ClassFunction:
		return "function"
	}
	return fmt.Sprintf("SymbolClass(%d)", int(c))
}

// SymbolTable records which class every declared name belongs to.
// Names are never removed and never change class.
type SymbolTable struct {
	classes map[string]SymbolClass
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{classes: make(map[string]SymbolClass)}
}

// Declare adds name to class. Declaring a name again in the same class is a no-op.
func (s *SymbolTable) Declare(name string, class SymbolClass) error {
	if existing, ok := s.classes[name]; ok && existing != class {
		return fmt.Errorf("%q is already declared as %s, cannot redeclare as %s", name, existing, class)
	}
	s.classes[name] = class
	return nil
}

// Class returns the class of name, or ClassNone if it is unknown.
func (s *SymbolTable) Class(name string) SymbolClass {
	return s.classes[name]
}

// Is reports whether name is declared in class.
func (s *SymbolTable) Is(name string, class SymbolClass) bool {
	return s.classes[name] == class
}

// IsVariable reports whether name is a variable of any class.
func (s *SymbolTable) IsVariable(name string) bool {
	switch s.classes[name] {
	case ClassInt, ClassString, ClassBool, ClassIntList:
		return true
	}
	return false
}

// Names returns the sorted names declared in class.
func (s *SymbolTable) Names(class SymbolClass) []string {
	var names []string
	for name, c := range s.classes {
		if c == class {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ImportSet is an ordered set of C headers.
type ImportSet struct {
	headers []string
	seen    map[string]bool
}

// NewImportSet creates an empty ImportSet.
func NewImportSet() *ImportSet {
	return &ImportSet{seen: make(map[string]bool)}
}

// Add appends header unless it is already present. It reports whether it was added.
func (s *ImportSet) Add(header string) bool {
	if s.seen[header] {
		return false
	}
	s.seen[header] = true
	s.headers = append(s.headers, header)
	return true
}

// Contains reports whether header has been added.
func (s *ImportSet) Contains(header string) bool {
	return s.seen[header]
}

// Headers returns the headers in the order they were added.
func (s *ImportSet) Headers() []string {
	out := make([]string, len(s.headers))
	copy(out, s.headers)
	return out
}
