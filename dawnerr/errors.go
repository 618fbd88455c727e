// Package dawnerr defines the error values reported by the DawnLang compiler.
package dawnerr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeSourceNotFound ErrorType = "SourceNotFound"
	TypePhase          ErrorType = "PhaseError"
)

// DawnError is the interface for all DawnLang-related errors.
type DawnError interface {
	error
	Type() ErrorType
}

// Phase identifies how far a build got before it failed.
type Phase string

const (
	PhaseRead      Phase = "read"
	PhaseInclude   Phase = "include"
	PhaseParse     Phase = "parse"
	PhaseFunctions Phase = "function-scan"
	PhaseImports   Phase = "import-scan"
	PhaseConvert   Phase = "convert"
	PhaseWriteC    Phase = "write-c"
	PhasePrepare   Phase = "prepare-output"
	PhaseCompile   Phase = "compile"
	PhaseCleanup   Phase = "cleanup"
)

// phaseCodes are the short codes printed to users, one per phase.
var phaseCodes = map[Phase]string{
	PhaseRead:      "r100",
	PhaseInclude:   "r200",
	PhaseParse:     "p100",
	PhaseFunctions: "fs100",
	PhaseImports:   "is100",
	PhaseConvert:   "c100",
	PhaseWriteC:    "wc100",
	PhasePrepare:   "cf100",
	PhaseCompile:   "cf200",
	PhaseCleanup:   "cl100",
}

// Code returns the short diagnostic code of the phase.
func (p Phase) Code() string {
	if code, ok := phaseCodes[p]; ok {
		return code
	}
	return "a000"
}

// SourceNotFoundError is returned when the root source file does not exist.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("[%s] %s", TypeSourceNotFound, e.Path)
}

func (e *SourceNotFoundError) Type() ErrorType {
	return TypeSourceNotFound
}

// PhaseError is a fault raised by any pipeline phase after input validation.
// Position fields are zero when the fault is not tied to an atom.
type PhaseError struct {
	Phase     Phase
	File      string
	Line      int
	AtomIndex int
	Atom      string
	Err       error
}

func (e *PhaseError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s (%s)", TypePhase, e.Phase.Code(), e.Phase))
	if e.File != "" {
		sb.WriteString(" " + e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf(":%d", e.Line))
		}
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(" line %d", e.Line))
	}
	if e.Atom != "" {
		sb.WriteString(fmt.Sprintf(" at atom %d %q", e.AtomIndex, e.Atom))
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

func (e *PhaseError) Type() ErrorType {
	return TypePhase
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Code returns the short diagnostic code of the failing phase.
func (e *PhaseError) Code() string {
	return e.Phase.Code()
}

// MultiError collects multiple errors, for example several failed cleanup steps.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if de, ok := m.Errors[0].(DawnError); ok {
			return de.Type()
		}
	}
	return "MultiError"
}

func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// ErrorOrNil returns nil when no errors were collected.
func (m *MultiError) ErrorOrNil() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewPhaseError wraps err as a fault of the given phase.
// An err that already is a PhaseError is returned unchanged so the innermost phase wins.
func NewPhaseError(phase Phase, err error) *PhaseError {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe
	}
	return &PhaseError{Phase: phase, Err: err}
}

// NewPhaseErrorAt creates a PhaseError pointing at a specific atom.
func NewPhaseErrorAt(phase Phase, file string, line, atomIndex int, atom string, msg string) *PhaseError {
	return &PhaseError{
		Phase:     phase,
		File:      file,
		Line:      line,
		AtomIndex: atomIndex,
		Atom:      atom,
		Err:       errors.New(msg),
	}
}
