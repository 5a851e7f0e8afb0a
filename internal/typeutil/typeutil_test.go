package typeutil

import (
	"testing"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/resolved"
)

func sn(mod string, name ast.Identifier) resolved.ScopedName {
	return resolved.ScopedName{ModuleName: ast.ModuleName{ast.Identifier(mod)}, Name: name}
}

func prim(p resolved.Primitive, params ...*resolved.TypeExpr) *resolved.TypeExpr {
	return &resolved.TypeExpr{Kind: resolved.RefPrimitive, Primitive: p, Parameters: params}
}

func tparam(name ast.Identifier) *resolved.TypeExpr {
	return &resolved.TypeExpr{Kind: resolved.RefTypeParam, TypeParam: name}
}

func declRef(mod string, name ast.Identifier, params ...*resolved.TypeExpr) *resolved.TypeExpr {
	return &resolved.TypeExpr{Kind: resolved.RefDecl, Decl: sn(mod, name), Parameters: params}
}

func TestExpandTypeAliasOneLevel(t *testing.T) {
	alias := &resolved.Decl{
		ModuleName: ast.ModuleName{"demo"}, Name: "IntPair", TypeParams: nil,
		Body: &resolved.TypeDefBody{Type: declRef("demo", "Pair", prim(resolved.Int32), prim(resolved.Int32))},
	}
	l := &resolved.LoadedAdl{AllDecls: map[resolved.ScopedName]*resolved.Decl{alias.ScopedName(): alias}}

	out := ExpandTypeAlias(declRef("demo", "IntPair"), l)
	if out.Kind != resolved.RefDecl || out.Decl.Name != "Pair" || len(out.Parameters) != 2 {
		t.Fatalf("unexpected expansion: %+v", out)
	}
}

func TestExpandTypeAliasSubstitutesParams(t *testing.T) {
	box := &resolved.Decl{
		ModuleName: ast.ModuleName{"demo"}, Name: "Box", TypeParams: ast.TypeParams{"T"},
		Body: &resolved.TypeDefBody{Type: prim(resolved.Vector, tparam("T"))},
	}
	l := &resolved.LoadedAdl{AllDecls: map[resolved.ScopedName]*resolved.Decl{box.ScopedName(): box}}

	out := ExpandTypeAlias(declRef("demo", "Box", prim(resolved.String)), l)
	if out.Kind != resolved.RefPrimitive || out.Primitive != resolved.Vector {
		t.Fatalf("expected Vector head, got %+v", out)
	}
	if out.Parameters[0].Kind != resolved.RefPrimitive || out.Parameters[0].Primitive != resolved.String {
		t.Fatalf("expected String substituted for T, got %+v", out.Parameters[0])
	}
}

func TestExpandTypesFixedPoint(t *testing.T) {
	inner := &resolved.Decl{ModuleName: ast.ModuleName{"demo"}, Name: "A", Body: &resolved.TypeDefBody{Type: prim(resolved.Int32)}}
	outer := &resolved.Decl{ModuleName: ast.ModuleName{"demo"}, Name: "B", Body: &resolved.TypeDefBody{Type: declRef("demo", "A")}}
	l := &resolved.LoadedAdl{AllDecls: map[resolved.ScopedName]*resolved.Decl{
		inner.ScopedName(): inner, outer.ScopedName(): outer,
	}}

	out := ExpandTypes(declRef("demo", "B"), ExpandOptions{Aliases: true}, l)
	if out.Kind != resolved.RefPrimitive || out.Primitive != resolved.Int32 {
		t.Fatalf("expected chain to expand through B->A->Int32, got %+v", out)
	}
}

func TestExpandNewTypeDoesNotAffectAliases(t *testing.T) {
	alias := &resolved.Decl{ModuleName: ast.ModuleName{"demo"}, Name: "A", Body: &resolved.TypeDefBody{Type: prim(resolved.Int32)}}
	l := &resolved.LoadedAdl{AllDecls: map[resolved.ScopedName]*resolved.Decl{alias.ScopedName(): alias}}

	out := ExpandNewType(declRef("demo", "A"), l)
	if !out.Equal(declRef("demo", "A")) {
		t.Fatalf("ExpandNewType must leave a type-alias reference untouched, got %+v", out)
	}
}

func TestMonomorphicDeclSubstitutesFields(t *testing.T) {
	pair := &resolved.Decl{
		ModuleName: ast.ModuleName{"demo"}, Name: "Pair", TypeParams: ast.TypeParams{"A", "B"},
		Body: &resolved.StructBody{Fields: []*resolved.Field{
			{Name: "v1", Type: tparam("A")},
			{Name: "v2", Type: tparam("B")},
		}},
	}
	l := &resolved.LoadedAdl{AllDecls: map[resolved.ScopedName]*resolved.Decl{pair.ScopedName(): pair}}

	te := declRef("demo", "Pair", prim(resolved.Int32), prim(resolved.String))
	mono, err := MonomorphicDecl(te, nil, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mono.Name != "Pair_Int32_String" {
		t.Errorf("expected default-named clone Pair_Int32_String, got %q", mono.Name)
	}
	if len(mono.TypeParams) != 0 {
		t.Errorf("expected monomorphic clone to have no type params, got %v", mono.TypeParams)
	}
	body := mono.Body.(*resolved.StructBody)
	if body.Fields[0].Type.Primitive != resolved.Int32 || body.Fields[1].Type.Primitive != resolved.String {
		t.Fatalf("unexpected substituted fields: %+v", body)
	}
	// Original decl must be untouched.
	if pair.Body.(*resolved.StructBody).Fields[0].Type.Kind != resolved.RefTypeParam {
		t.Fatalf("MonomorphicDecl must not mutate the source decl")
	}
}

func TestMonomorphicDeclCustomNameFn(t *testing.T) {
	box := &resolved.Decl{
		ModuleName: ast.ModuleName{"demo"}, Name: "Box", TypeParams: ast.TypeParams{"T"},
		Body: &resolved.NewTypeBody{Type: tparam("T")},
	}
	l := &resolved.LoadedAdl{AllDecls: map[resolved.ScopedName]*resolved.Decl{box.ScopedName(): box}}

	nameFn := func(original string, params []*resolved.TypeExpr) string { return original + "Of" + TypeExprToString(params[0]) }
	mono, err := MonomorphicDecl(declRef("demo", "Box", prim(resolved.Bool)), nameFn, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mono.Name != "BoxOfBool" {
		t.Errorf("expected BoxOfBool, got %q", mono.Name)
	}
}

func TestTypeExprToString(t *testing.T) {
	te := prim(resolved.Vector, declRef("demo", "Pair", prim(resolved.Int32), prim(resolved.Int32)))
	got := TypeExprToString(te)
	want := "Vector<demo.Pair<Int32,Int32>>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
