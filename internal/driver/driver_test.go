package driver

import (
	"testing"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/resolved"
)

func TestPackageForUsesPerModuleOverride(t *testing.T) {
	m := PackageMapping{RootPackage: "gen", PerModule: map[string]string{"acme.billing": "custom/billing"}}
	if got := m.PackageFor(ast.ModuleName{"acme", "billing"}); got != "custom/billing" {
		t.Errorf("got %q", got)
	}
}

func TestPackageForFallsBackToRootPackage(t *testing.T) {
	m := PackageMapping{RootPackage: "gen"}
	if got := m.PackageFor(ast.ModuleName{"acme", "billing"}); got != "gen/acme/billing" {
		t.Errorf("got %q", got)
	}
}

func TestPackageForWithNoRootPackageUsesDottedName(t *testing.T) {
	m := PackageMapping{}
	if got := m.PackageFor(ast.ModuleName{"acme", "billing"}); got != "acme.billing" {
		t.Errorf("got %q", got)
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	b := &stubBackend{name: "stub"}
	r.Register(b)

	got, err := r.Get("stub")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != b {
		t.Errorf("expected to get back the registered backend")
	}
}

func TestRegistryGetUnknownErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nope"); err == nil {
		t.Fatalf("expected an error for an unregistered backend")
	}
}

func TestRegistryEmitToDispatches(t *testing.T) {
	r := NewRegistry()
	b := &stubBackend{name: "stub"}
	r.Register(b)

	if err := r.EmitTo("stub", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.emitted {
		t.Errorf("expected Emit to have been called")
	}
}

type stubBackend struct {
	name    string
	emitted bool
}

func (b *stubBackend) Name() string { return b.name }
func (b *stubBackend) Emit(ctx *Context) error {
	b.emitted = true
	return nil
}

func TestAnnotationAccessors(t *testing.T) {
	docName := resolved.ScopedName{ModuleName: ast.ModuleName{"sys", "annotations"}, Name: "Doc"}
	flagName := resolved.ScopedName{ModuleName: ast.ModuleName{"demo"}, Name: "Flag"}
	docLit, _ := ast.NewLiteral("hello", 0, 0)
	flagLit, _ := ast.NewLiteral(true, 0, 0)

	d := &resolved.Decl{
		ModuleName: ast.ModuleName{"demo"},
		Name:       "S",
		Annotations: resolved.Annotations{
			{Name: docName, Value: docLit},
			{Name: flagName, Value: flagLit},
		},
	}

	if got, ok := DocString(d); !ok || got != "hello" {
		t.Errorf("expected DocString 'hello', got %q (%v)", got, ok)
	}
	if got, ok := BoolAnnotation(d, flagName); !ok || !got {
		t.Errorf("expected Flag annotation true, got %v (%v)", got, ok)
	}
	if _, ok := StringAnnotation(d, flagName); ok {
		t.Errorf("expected Flag annotation to not decode as a string")
	}
}

func TestContextResolveAndModules(t *testing.T) {
	decl := &resolved.Decl{ModuleName: ast.ModuleName{"demo"}, Name: "S", Body: &resolved.StructBody{}}
	mod := &resolved.Module{Name: ast.ModuleName{"demo"}, Decls: map[ast.Identifier]*resolved.Decl{"S": decl}, DeclOrder: []ast.Identifier{"S"}}
	loaded := &resolved.LoadedAdl{Modules: []*resolved.Module{mod}, AllDecls: map[resolved.ScopedName]*resolved.Decl{decl.ScopedName(): decl}}

	ctx := &Context{Loaded: loaded}
	if len(ctx.Modules()) != 1 {
		t.Fatalf("expected 1 module")
	}
	got, err := ctx.Resolve(decl.ScopedName())
	if err != nil || got != decl {
		t.Fatalf("expected Resolve to find decl, got %v, %v", got, err)
	}
}
