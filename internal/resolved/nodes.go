// Package resolved defines the canonical AST produced by the resolver:
// the same shape as internal/ast's unresolved tree, but every TypeRef
// has been normalised to one of the three canonical forms the spec
// requires (primitive, type parameter, or fully-qualified scoped
// reference), and every decl carries its owning module name so backend
// code walking the resolved graph never needs to thread that context
// separately.
//
// Resolved modules are immutable once built: the resolver never mutates
// a published *Module, and backends that need a monomorphic variant of
// a generic decl get a fresh clone from internal/typeutil rather than
// patching the shared tree in place.
package resolved

import (
	"fmt"

	"github.com/adl-lang/adlc/internal/ast"
)

// ScopedName is a resolved, globally unique declaration identity: the
// module that owns the declaration plus its local name.
type ScopedName struct {
	ModuleName ast.ModuleName
	Name       ast.Identifier
}

func (s ScopedName) String() string {
	if len(s.ModuleName) == 0 {
		return string(s.Name)
	}
	return s.ModuleName.String() + "." + string(s.Name)
}

// Primitive enumerates the built-in type constructors, each with a
// fixed arity.
type Primitive int

const (
	Void Primitive = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Word8
	Word16
	Word32
	Word64
	Float
	Double
	String
	Bytes
	Vector
	StringMap
	Nullable
	Json
	TypeToken
)

var primitiveNames = map[Primitive]string{
	Void: "Void", Bool: "Bool",
	Int8: "Int8", Int16: "Int16", Int32: "Int32", Int64: "Int64",
	Word8: "Word8", Word16: "Word16", Word32: "Word32", Word64: "Word64",
	Float: "Float", Double: "Double", String: "String", Bytes: "Bytes",
	Vector: "Vector", StringMap: "StringMap", Nullable: "Nullable",
	Json: "Json", TypeToken: "TypeToken",
}

var namesToPrimitive map[string]Primitive

func init() {
	namesToPrimitive = make(map[string]Primitive, len(primitiveNames))
	for p, n := range primitiveNames {
		namesToPrimitive[n] = p
	}
}

func (p Primitive) String() string {
	if n, ok := primitiveNames[p]; ok {
		return n
	}
	return "Primitive(?)"
}

// LookupPrimitive returns the Primitive named by name, if any.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := namesToPrimitive[name]
	return p, ok
}

// Arity is the fixed number of type parameters a primitive takes:
// nullary for every scalar and container-of-nothing type, unary for
// the three parametric containers.
func (p Primitive) Arity() int {
	switch p {
	case Vector, StringMap, Nullable:
		return 1
	default:
		return 0
	}
}

// TypeRefKind discriminates the three canonical forms a resolved
// TypeExpr head may take.
type TypeRefKind int

const (
	RefPrimitive TypeRefKind = iota
	RefTypeParam
	RefDecl
)

// TypeExpr is a resolved, recursive type expression: a canonical head
// (TypeRefKind) applied to a saturated list of type arguments.
type TypeExpr struct {
	Kind TypeRefKind

	Primitive Primitive      // valid when Kind == RefPrimitive
	TypeParam ast.Identifier // valid when Kind == RefTypeParam
	Decl      ScopedName     // valid when Kind == RefDecl

	Parameters []*TypeExpr
}

// HeadArity reports the declared parameter count of t's head: the
// primitive table for RefPrimitive, 0 for RefTypeParam, or the
// resolved declaration's own type-parameter count for RefDecl (the
// caller supplies declArity since TypeExpr itself has no resolver
// access).
func (t *TypeExpr) HeadArity(declArity func(ScopedName) int) int {
	switch t.Kind {
	case RefPrimitive:
		return t.Primitive.Arity()
	case RefTypeParam:
		return 0
	case RefDecl:
		return declArity(t.Decl)
	default:
		return 0
	}
}

// Equal reports whether t and other are structurally identical —
// same head, same parameters in the same order.
func (t *TypeExpr) Equal(other *TypeExpr) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case RefPrimitive:
		if t.Primitive != other.Primitive {
			return false
		}
	case RefTypeParam:
		if t.TypeParam != other.TypeParam {
			return false
		}
	case RefDecl:
		if !ScopedNamesEqual(t.Decl, other.Decl) {
			return false
		}
	}
	if len(t.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range t.Parameters {
		if !t.Parameters[i].Equal(other.Parameters[i]) {
			return false
		}
	}
	return true
}

// ScopedNamesEqual reports whether a and b name the same declaration.
func ScopedNamesEqual(a, b ScopedName) bool {
	if len(a.ModuleName) != len(b.ModuleName) || a.Name != b.Name {
		return false
	}
	for i := range a.ModuleName {
		if a.ModuleName[i] != b.ModuleName[i] {
			return false
		}
	}
	return true
}

// Field is a single struct field or union alternative, already
// annotation-merged and with its type expression resolved.
type Field struct {
	Name        ast.Identifier
	Type        *TypeExpr
	Default     *ast.Literal
	Annotations Annotations
	Doc         ast.DocComment
}

// Annotation is a single resolved (ScopedName, Literal) pair.
type Annotation struct {
	Name  ScopedName
	Value *ast.Literal
}

// Annotations is an ordered, key-unique set of resolved annotations.
// Order is preserved from merge order (source decl/field annotations
// first, then sidecars in search-path order) purely for deterministic
// printing; lookups by key never depend on order.
type Annotations []Annotation

// Get returns the value attached under name, if any.
func (a Annotations) Get(name ScopedName) (*ast.Literal, bool) {
	for _, ann := range a {
		if ScopedNamesEqual(ann.Name, name) {
			return ann.Value, true
		}
	}
	return nil, false
}

// Set adds or overwrites (last-writer-wins) the value attached under
// name, preserving the position of an existing entry.
func (a *Annotations) Set(name ScopedName, value *ast.Literal) {
	for i, ann := range *a {
		if ScopedNamesEqual(ann.Name, name) {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Annotation{Name: name, Value: value})
}

// StructBody is the payload of a struct declaration: an ordered,
// possibly-empty product of fields.
type StructBody struct {
	Fields []*Field
}

// UnionBody is the payload of a union declaration: an ordered,
// non-empty sum of alternatives.
type UnionBody struct {
	Fields []*Field
}

// TypeDefBody is the payload of a type-alias declaration.
type TypeDefBody struct {
	Type *TypeExpr
}

// NewTypeBody is the payload of a newtype declaration.
type NewTypeBody struct {
	Type    *TypeExpr
	Default *ast.Literal
}

// DeclBody is implemented by exactly one of StructBody, UnionBody,
// TypeDefBody, or NewTypeBody.
type DeclBody interface {
	declBody()
}

func (*StructBody) declBody()  {}
func (*UnionBody) declBody()   {}
func (*TypeDefBody) declBody() {}
func (*NewTypeBody) declBody() {}

// Decl is a single resolved top-level declaration, annotated with the
// module that owns it so a ScopedName can always be recovered from the
// Decl alone.
type Decl struct {
	ModuleName  ast.ModuleName
	Name        ast.Identifier
	Version     *uint32
	TypeParams  ast.TypeParams
	Body        DeclBody
	Annotations Annotations
	Doc         ast.DocComment
}

// ScopedName returns d's globally unique identity.
func (d *Decl) ScopedName() ScopedName {
	return ScopedName{ModuleName: d.ModuleName, Name: d.Name}
}

// Import mirrors ast.Import after resolution: Wildcard imports every
// decl of ModuleName, otherwise exactly Name is imported (possibly
// under Alias).
type Import struct {
	ModuleName ast.ModuleName
	Wildcard   bool
	Name       ast.Identifier
	Alias      ast.Identifier
}

// Module is a fully resolved, annotation-merged .adl source file: the
// same shape as ast.Module, but decls are keyed by name for O(1)
// lookup and every type expression inside them is canonical.
type Module struct {
	Name        ast.ModuleName
	Imports     []Import
	Decls       map[ast.Identifier]*Decl
	DeclOrder   []ast.Identifier // declaration order, for deterministic iteration
	Annotations Annotations
	Doc         ast.DocComment
}

// DeclsInOrder returns m's declarations in source order.
func (m *Module) DeclsInOrder() []*Decl {
	out := make([]*Decl, 0, len(m.DeclOrder))
	for _, name := range m.DeclOrder {
		out = append(out, m.Decls[name])
	}
	return out
}

// LoadedAdl is the resolver context described in spec.md §3: the
// transitive closure of loaded modules in topological (dependencies
// first) order, plus a total lookup over every declaration they
// define.
type LoadedAdl struct {
	Modules  []*Module
	AllDecls map[ScopedName]*Decl
}

// Resolve looks up sn across the whole loaded set. It is the "total
// function ScopedName -> Decl that errors on unknown names" the spec
// requires of LoadedAdl.resolver.
func (l *LoadedAdl) Resolve(sn ScopedName) (*Decl, error) {
	d, ok := l.AllDecls[sn]
	if !ok {
		return nil, fmt.Errorf("unknown declaration %s", sn)
	}
	return d, nil
}

// DeclArity returns the type-parameter count of the declaration named
// by sn, for use as TypeExpr.HeadArity's declArity callback. It panics
// if sn is not present, since by the time a resolved TypeExpr exists
// invariant 1 (every Reference denotes a key in allDecls) must already
// hold.
func (l *LoadedAdl) DeclArity(sn ScopedName) int {
	d, ok := l.AllDecls[sn]
	if !ok {
		panic(fmt.Sprintf("resolved.LoadedAdl.DeclArity: unknown declaration %s", sn))
	}
	return len(d.TypeParams)
}
