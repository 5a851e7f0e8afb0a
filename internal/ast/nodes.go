// Package ast defines the unresolved syntax tree produced by the
// parser: one Module per source file, with raw type expressions that
// have not yet been checked for existence or arity. Name resolution
// and canonicalisation happen later, in the resolver, producing the
// resolved package's tree.
package ast

import "encoding/json"

// Node is the base interface for every AST node; every node knows its
// own source position for diagnostics.
type Node interface {
	Pos() (line, col int)
}

// Identifier is a single unqualified name: a module path segment, a
// declaration name, a field name, or a type parameter name.
type Identifier string

// ModuleName is a dotted sequence of identifiers, e.g. "sys.types" or
// "acme.billing.invoices".
type ModuleName []Identifier

func (m ModuleName) String() string {
	s := ""
	for i, id := range m {
		if i > 0 {
			s += "."
		}
		s += string(id)
	}
	return s
}

// ScopedName is a possibly-module-qualified reference to a
// declaration: ModuleName is empty when the source wrote a bare name.
type ScopedName struct {
	ModuleName ModuleName
	Name       Identifier
}

func (s ScopedName) String() string {
	if len(s.ModuleName) == 0 {
		return string(s.Name)
	}
	return s.ModuleName.String() + "." + string(s.Name)
}

// TypeExpr is a raw, as-written type reference: a name (primitive,
// type parameter, or declared type, undetermined until resolution)
// applied to zero or more type argument expressions.
type TypeExpr struct {
	Name       ScopedName
	Parameters []*TypeExpr
	Line, Col  int
}

func (t *TypeExpr) Pos() (int, int) { return t.Line, t.Col }

// Literal is a JSON value used for field defaults, newtype defaults,
// and annotation payloads. Value is the decoded form used by
// structural comparisons in the resolver; Raw is a canonical JSON
// rendering of Value, computed once at construction, used by the
// printer.
type Literal struct {
	Raw       string
	Value     any
	Line, Col int
}

func (l *Literal) Pos() (int, int) { return l.Line, l.Col }

// NewLiteral wraps a decoded JSON value (nil, bool, float64, string,
// []any, or map[string]any, per encoding/json's default decoding) into
// a Literal, computing its canonical Raw rendering.
func NewLiteral(value any, line, col int) (*Literal, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return &Literal{Raw: string(raw), Value: value, Line: line, Col: col}, nil
}

// Annotation is a single `@Name value` or `annotation ref Name value;`
// attachment. Value is nil for a bare annotation with no payload.
type Annotation struct {
	Name      ScopedName
	Value     *Literal
	Line, Col int
}

func (a *Annotation) Pos() (int, int) { return a.Line, a.Col }

// Annotations is an ordered set of annotations attached to a module,
// declaration, or field; ordered so the printer is deterministic, but
// resolution treats it as a map keyed by resolved ScopedName.
type Annotations []*Annotation

// DocComment is the aggregated text of consecutive /// lines that
// immediately precede a declaration or field.
type DocComment struct {
	Lines []string
}

func (d DocComment) String() string {
	s := ""
	for i, l := range d.Lines {
		if i > 0 {
			s += "\n"
		}
		s += l
	}
	return s
}

// Field is a single struct field or union alternative.
type Field struct {
	Name        Identifier
	Type        *TypeExpr
	Default     *Literal
	Annotations Annotations
	Doc         DocComment
	Line, Col   int
}

func (f *Field) Pos() (int, int) { return f.Line, f.Col }

// TypeParams is the ordered list of type-parameter names a generic
// declaration introduces, scoped to that declaration's body.
type TypeParams []Identifier

// StructBody is the payload of a `struct` declaration: an ordered,
// possibly-empty product of fields.
type StructBody struct {
	Fields []*Field
}

// UnionBody is the payload of a `union` declaration: an ordered,
// non-empty sum of alternatives, represented with the same Field shape
// (a union alternative has no meaningful default, so Default is
// always nil after parsing).
type UnionBody struct {
	Fields []*Field
}

// TypeAliasBody is the payload of a `type` declaration: a type
// expression in terms of the declaration's own type parameters.
type TypeAliasBody struct {
	Type *TypeExpr
}

// NewTypeBody is the payload of a `newtype` declaration: a single
// underlying type expression plus an optional default literal.
type NewTypeBody struct {
	Type    *TypeExpr
	Default *Literal
}

// DeclBody is implemented by exactly one of StructBody, UnionBody,
// TypeAliasBody, or NewTypeBody.
type DeclBody interface {
	declBody()
}

func (*StructBody) declBody()    {}
func (*UnionBody) declBody()     {}
func (*TypeAliasBody) declBody() {}
func (*NewTypeBody) declBody()   {}

// Decl is a single top-level declaration: struct, union, type, or
// newtype.
type Decl struct {
	Name        Identifier
	TypeParams  TypeParams
	Body        DeclBody
	Annotations Annotations
	Doc         DocComment
	Line, Col   int
}

func (d *Decl) Pos() (int, int) { return d.Line, d.Col }

// Import is a single `import` statement: either a whole-module
// wildcard import (Wildcard true, Name empty) or a single scoped-name
// import, optionally aliased.
type Import struct {
	ModuleName ModuleName
	Wildcard   bool
	Name       Identifier // unset when Wildcard
	Alias      Identifier // unset when no "as" clause
	Line, Col  int
}

func (i *Import) Pos() (int, int) { return i.Line, i.Col }

// StandaloneAnnotation is a top-level `annotation <ref> <Name> <value>;`
// statement, attaching an annotation to a declaration or field from
// outside that declaration's own source text. Ref is empty for a
// module-level annotation, a bare decl name for a decl-level one, or
// "Decl::field" for a field-level one.
type StandaloneAnnotation struct {
	Ref       string
	Name      ScopedName
	Value     *Literal
	Line, Col int
}

func (s *StandaloneAnnotation) Pos() (int, int) { return s.Line, s.Col }

// Module is the unresolved syntax tree for a single .adl source file.
type Module struct {
	Name                   ModuleName
	Imports                []*Import
	Decls                  []*Decl
	ModuleAnnotations      Annotations
	StandaloneAnnotations  []*StandaloneAnnotation
	Doc                    DocComment
	Line, Col              int
}

func (m *Module) Pos() (int, int) { return m.Line, m.Col }
