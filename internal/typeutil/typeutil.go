// Package typeutil implements the pure, stateless type-expression
// transforms of spec.md §4.5: alias and newtype expansion, recursive
// expansion into a whole TypeExpr tree, and monomorphic instantiation
// of a generic decl. Every function here takes a *resolved.LoadedAdl
// (or the narrower lookup it needs) and returns new values; none of
// them mutate the resolved AST, matching §3's "resolved modules are
// immutable once published" lifecycle rule.
//
// Grounded on internal/checker/types.go's ResolveType (the teacher's
// own type-substitution entry point) and internal/ir/lower.go's
// pattern of building fresh IR values from a resolved symbol table
// rather than mutating the input in place.
package typeutil

import (
	"strings"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/resolved"
)

// substitution maps a type-parameter name to the concrete TypeExpr
// bound to it at an instantiation site.
type substitution map[string]*resolved.TypeExpr

func bind(params []string, args []*resolved.TypeExpr) substitution {
	sub := make(substitution, len(params))
	for i, p := range params {
		if i < len(args) {
			sub[p] = args[i]
		}
	}
	return sub
}

func substitute(t *resolved.TypeExpr, sub substitution) *resolved.TypeExpr {
	if t == nil {
		return nil
	}
	if t.Kind == resolved.RefTypeParam {
		if bound, ok := sub[string(t.TypeParam)]; ok {
			return bound
		}
	}
	params := make([]*resolved.TypeExpr, len(t.Parameters))
	for i, p := range t.Parameters {
		params[i] = substitute(p, sub)
	}
	return &resolved.TypeExpr{
		Kind:      t.Kind,
		Primitive: t.Primitive,
		TypeParam: t.TypeParam,
		Decl:      t.Decl,
		Parameters: params,
	}
}

// ExpandTypeAlias rewrites te one alias-application deep: if te's head
// names a type-alias decl, the alias's right-hand side is substituted
// with te's own parameters bound to the alias's type parameters and
// returned; otherwise te is returned unchanged. It does not recurse
// into te's own parameters — use ExpandTypes for that.
func ExpandTypeAlias(te *resolved.TypeExpr, l *resolved.LoadedAdl) *resolved.TypeExpr {
	if te == nil || te.Kind != resolved.RefDecl {
		return te
	}
	d, ok := l.AllDecls[te.Decl]
	if !ok {
		return te
	}
	body, ok := d.Body.(*resolved.TypeDefBody)
	if !ok {
		return te
	}
	params := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		params[i] = string(p)
	}
	return substitute(body.Type, bind(params, te.Parameters))
}

// ExpandNewType is ExpandTypeAlias's newtype counterpart, used by
// backends (e.g. SQL column typing) that need a newtype's underlying
// representation rather than its wrapper identity.
func ExpandNewType(te *resolved.TypeExpr, l *resolved.LoadedAdl) *resolved.TypeExpr {
	if te == nil || te.Kind != resolved.RefDecl {
		return te
	}
	d, ok := l.AllDecls[te.Decl]
	if !ok {
		return te
	}
	body, ok := d.Body.(*resolved.NewTypeBody)
	if !ok {
		return te
	}
	params := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		params[i] = string(p)
	}
	return substitute(body.Type, bind(params, te.Parameters))
}

// ExpandOptions selects which of ExpandTypeAlias/ExpandNewType
// ExpandTypes applies at each node (aliases first, then newtypes)
// before recursing into parameters. Both default to false (no
// expansion).
type ExpandOptions struct {
	Aliases  bool
	NewTypes bool
}

// ExpandTypes walks te recursively, applying the selected expansions
// at every node to a fixed point (safe: alias cycles are rejected
// during resolution, per spec.md §4.4 step 5) and then into every
// parameter.
func ExpandTypes(te *resolved.TypeExpr, opts ExpandOptions, l *resolved.LoadedAdl) *resolved.TypeExpr {
	if te == nil {
		return nil
	}
	cur := te
	for {
		next := cur
		if opts.Aliases {
			next = ExpandTypeAlias(next, l)
		}
		if opts.NewTypes {
			next = ExpandNewType(next, l)
		}
		if next == cur || next.Equal(cur) {
			break
		}
		cur = next
	}
	params := make([]*resolved.TypeExpr, len(cur.Parameters))
	for i, p := range cur.Parameters {
		params[i] = ExpandTypes(p, opts, l)
	}
	return &resolved.TypeExpr{
		Kind:       cur.Kind,
		Primitive:  cur.Primitive,
		TypeParam:  cur.TypeParam,
		Decl:       cur.Decl,
		Parameters: params,
	}
}

// NameFn computes the derived name of a monomorphic clone from the
// original decl name and the concrete parameters it was instantiated
// with. The conventional implementation joins each parameter's
// TypeExprToString with underscores, e.g. "Pair_Int32_Int32".
type NameFn func(original string, params []*resolved.TypeExpr) string

// DefaultNameFn is the conventional NameFn: "Name_Param1_Param2...".
func DefaultNameFn(original string, params []*resolved.TypeExpr) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, original)
	for _, p := range params {
		parts = append(parts, sanitizeForName(TypeExprToString(p)))
	}
	return strings.Join(parts, "_")
}

func sanitizeForName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// MonomorphicDecl returns a non-generic clone of the decl named by te
// (te.Kind must be RefDecl, te.Parameters fully saturated with
// concrete types, i.e. no RefTypeParam node anywhere within them) with
// every TypeParam substituted by the corresponding parameter. The
// clone's name is computed by nameFn and its ScopedName is rewritten
// to that name within its original module. Callers that need to
// collect monomorphic decls into a registry should deduplicate by the
// computed name — this function itself does not memoise, per spec.md
// §9's "cache by canonical name" note belonging to the caller.
func MonomorphicDecl(te *resolved.TypeExpr, nameFn NameFn, l *resolved.LoadedAdl) (*resolved.Decl, error) {
	if nameFn == nil {
		nameFn = DefaultNameFn
	}
	d, err := l.Resolve(te.Decl)
	if err != nil {
		return nil, err
	}
	params := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		params[i] = string(p)
	}
	sub := bind(params, te.Parameters)

	clone := &resolved.Decl{
		ModuleName:  d.ModuleName,
		Name:        d.Name,
		Version:     d.Version,
		TypeParams:  nil, // monomorphic: no type parameters remain
		Annotations: d.Annotations,
		Doc:         d.Doc,
	}
	clone.Name = ast.Identifier(nameFn(string(d.Name), te.Parameters))

	switch body := d.Body.(type) {
	case *resolved.StructBody:
		clone.Body = &resolved.StructBody{Fields: substituteFields(body.Fields, sub)}
	case *resolved.UnionBody:
		clone.Body = &resolved.UnionBody{Fields: substituteFields(body.Fields, sub)}
	case *resolved.TypeDefBody:
		clone.Body = &resolved.TypeDefBody{Type: substitute(body.Type, sub)}
	case *resolved.NewTypeBody:
		clone.Body = &resolved.NewTypeBody{Type: substitute(body.Type, sub), Default: body.Default}
	}
	return clone, nil
}

func substituteFields(fields []*resolved.Field, sub substitution) []*resolved.Field {
	out := make([]*resolved.Field, len(fields))
	for i, f := range fields {
		out[i] = &resolved.Field{
			Name:        f.Name,
			Type:        substitute(f.Type, sub),
			Default:     f.Default,
			Annotations: f.Annotations,
			Doc:         f.Doc,
		}
	}
	return out
}

// ScopedNamesEqual re-exports resolved.ScopedNamesEqual so callers
// working in typeutil's namespace (the home spec.md §4.5 names for it)
// don't need to reach into internal/resolved for this one comparison.
func ScopedNamesEqual(a, b resolved.ScopedName) bool { return resolved.ScopedNamesEqual(a, b) }

// TypeExprToString renders t in ADL's own angle-bracket notation,
// e.g. "Vector<Pair<Int32,Int32>>". Used by DefaultNameFn and by
// backends that need a human-readable canonical form.
func TypeExprToString(t *resolved.TypeExpr) string {
	if t == nil {
		return ""
	}
	var head string
	switch t.Kind {
	case resolved.RefPrimitive:
		head = t.Primitive.String()
	case resolved.RefTypeParam:
		head = string(t.TypeParam)
	case resolved.RefDecl:
		head = t.Decl.String()
	}
	if len(t.Parameters) == 0 {
		return head
	}
	parts := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		parts[i] = TypeExprToString(p)
	}
	return head + "<" + strings.Join(parts, ",") + ">"
}
