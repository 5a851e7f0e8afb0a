// Package diagnostic defines the compiler's error taxonomy and the
// accumulator used for non-fatal warnings (sidecar merge warnings).
//
// Fatal errors are not accumulated: every pipeline stage returns the
// first Error it hits as a plain Go error, per the "unwind on first
// error" propagation policy. Diagnostics (plural) exists only for the
// one class of non-fatal finding the spec calls out: unknown decl
// names in sidecar files.
package diagnostic

import "fmt"

// Kind identifies the class of a compiler error.
type Kind int

const (
	FileNotFound Kind = iota
	ParseError
	ModuleNotFound
	ImportCycle
	DuplicateDecl
	UnknownImport
	UnknownType
	ArityMismatch
	TypeAliasCycle
	DefaultValueMismatch
	AnnotationShapeError
	EmitError
	IOError
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "FileNotFound"
	case ParseError:
		return "ParseError"
	case ModuleNotFound:
		return "ModuleNotFound"
	case ImportCycle:
		return "ImportCycle"
	case DuplicateDecl:
		return "DuplicateDecl"
	case UnknownImport:
		return "UnknownImport"
	case UnknownType:
		return "UnknownType"
	case ArityMismatch:
		return "ArityMismatch"
	case TypeAliasCycle:
		return "TypeAliasCycle"
	case DefaultValueMismatch:
		return "DefaultValueMismatch"
	case AnnotationShapeError:
		return "AnnotationShapeError"
	case EmitError:
		return "EmitError"
	case IOError:
		return "IOError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a single fatal compiler diagnostic with a source location.
// It implements the standard error interface so callers can propagate
// it with a plain `return err`, and can still branch on Kind when they
// need to.
type Error struct {
	Kind    Kind
	File    string
	Line    int
	Col     int
	Message string
	Hint    string
}

// Error renders "<file>:<line>:<col>: <kind>: <message>" per the spec's
// user-visible diagnostic format. Line/Col are omitted when zero (some
// errors, like ModuleNotFound, have no single offending position).
func (e *Error) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Col)
	}
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s: %s (%s)", loc, e.Kind, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s: %s", loc, e.Kind, e.Message)
}

// Errorf builds a new *Error with a formatted message.
func Errorf(kind Kind, file string, line, col int, format string, args ...any) *Error {
	return &Error{Kind: kind, File: file, Line: line, Col: col, Message: fmt.Sprintf(format, args...)}
}

// WithHint returns a copy of e with Hint set.
func (e *Error) WithHint(hint string) *Error {
	cp := *e
	cp.Hint = hint
	return &cp
}

// Severity distinguishes warnings from informational notes in the
// accumulator below. There is no Error severity here: fatal errors
// never enter a Diagnostics collection.
type Severity int

const (
	Warning Severity = iota
	Info
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Note is a single accumulated non-fatal finding.
type Note struct {
	Severity Severity
	File     string
	Line     int
	Col      int
	Message  string
}

func (n Note) String() string {
	loc := n.File
	if n.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", n.File, n.Line, n.Col)
	}
	return fmt.Sprintf("%s: %s: %s", loc, n.Severity, n.Message)
}

// Diagnostics accumulates non-fatal notes across a compilation run.
type Diagnostics struct {
	notes []Note
}

// New returns an empty Diagnostics collection.
func New() *Diagnostics {
	return &Diagnostics{}
}

// Warnf records a warning-level note.
func (d *Diagnostics) Warnf(file string, line, col int, format string, args ...any) {
	d.notes = append(d.notes, Note{Severity: Warning, File: file, Line: line, Col: col, Message: fmt.Sprintf(format, args...)})
}

// Infof records an info-level note.
func (d *Diagnostics) Infof(file string, line, col int, format string, args ...any) {
	d.notes = append(d.notes, Note{Severity: Info, File: file, Line: line, Col: col, Message: fmt.Sprintf(format, args...)})
}

// All returns every accumulated note, in recorded order.
func (d *Diagnostics) All() []Note {
	return d.notes
}

// Empty reports whether no notes were recorded.
func (d *Diagnostics) Empty() bool {
	return len(d.notes) == 0
}
