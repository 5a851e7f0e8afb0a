package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adl-lang/adlc/internal/diagnostic"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadFileResolvesStdlibImport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.adl", `module demo {
	import sys.types.*;
	struct Box { Maybe<Int32> value; };
};`)

	l := New(Options{SearchPath: []string{dir}}, nil)
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded := l.LoadedAdl()
	if len(loaded.Modules) != 3 {
		t.Fatalf("expected 3 modules (sys.annotations + sys.types + demo), got %d", len(loaded.Modules))
	}
	if loaded.Modules[len(loaded.Modules)-1].Name.String() != "demo" {
		t.Errorf("expected demo to be resolved last (topological order), got %s", loaded.Modules[len(loaded.Modules)-1].Name)
	}
}

func TestLoadModuleOnSearchPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "acme/billing.adl", `module acme.billing {
	struct Invoice { Int32 amount; };
};`)
	mainPath := writeFile(t, dir, "main.adl", `module main {
	import acme.billing.Invoice;
	struct Wrapper { Invoice inv; };
};`)

	l := New(Options{SearchPath: []string{dir}}, nil)
	if err := l.LoadFile(mainPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded := l.LoadedAdl()
	if len(loaded.Modules) != 3 {
		t.Fatalf("expected 3 modules (sys.annotations + acme.billing + main), got %d", len(loaded.Modules))
	}
	if loaded.Modules[1].Name.String() != "acme.billing" {
		t.Errorf("expected acme.billing loaded before main, got %s in its place", loaded.Modules[1].Name)
	}
}

func TestLoadModuleNotFound(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeFile(t, dir, "main.adl", `module main {
	import nowhere.Thing;
	struct S { Thing t; };
};`)

	l := New(Options{SearchPath: []string{dir}}, nil)
	err := l.LoadFile(mainPath)
	de, ok := err.(*diagnostic.Error)
	if !ok || de.Kind != diagnostic.ModuleNotFound {
		t.Fatalf("expected ModuleNotFound, got %v", err)
	}
}

func TestLoadImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.adl", `module a { import b.*; struct A { Int32 x; }; };`)
	path := writeFile(t, dir, "b.adl", `module b { import a.*; struct B { Int32 y; }; };`)

	l := New(Options{SearchPath: []string{dir}}, nil)
	err := l.LoadFile(path)
	de, ok := err.(*diagnostic.Error)
	if !ok || de.Kind != diagnostic.ImportCycle {
		t.Fatalf("expected ImportCycle, got %v", err)
	}
}

func TestLoadSharedDiamondImportLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.adl", `module common { struct Shared { Int32 v; }; };`)
	writeFile(t, dir, "left.adl", `module left { import common.Shared; struct L { Shared s; }; };`)
	writeFile(t, dir, "right.adl", `module right { import common.Shared; struct R { Shared s; }; };`)
	path := writeFile(t, dir, "top.adl", `module top {
	import left.*;
	import right.*;
	struct Top { L l; R r; };
};`)

	l := New(Options{SearchPath: []string{dir}}, nil)
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded := l.LoadedAdl()
	count := 0
	for _, m := range loaded.Modules {
		if m.Name.String() == "common" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected common to be loaded exactly once, got %d", count)
	}
}

func TestLoadImplicitlyLoadsSysAnnotationsForBareNameUse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.adl", `module demo {
	struct S {
		@SerializedName "s" String x;
	};
};`)

	l := New(Options{SearchPath: []string{dir}}, nil)
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded := l.LoadedAdl()
	found := false
	for _, m := range loaded.Modules {
		if m.Name.String() == "sys.annotations" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sys.annotations to be implicitly loaded, got modules %v", loaded.Modules)
	}
}

func TestLoadTypeAliasCycleError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.adl", `module demo {
	type A = B;
	type B = A;
};`)

	l := New(Options{SearchPath: []string{dir}}, nil)
	err := l.LoadFile(path)
	de, ok := err.(*diagnostic.Error)
	if !ok || de.Kind != diagnostic.TypeAliasCycle {
		t.Fatalf("expected TypeAliasCycle, got %v", err)
	}
}

func TestSidecarMergedBeforeResolve(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.adl", `module demo {
	struct Tag { Bool v; };
	struct S { Int32 x; };
};`)
	writeFile(t, dir, "demo.adl-java", `{"S": {"annotations": {"Tag": "tagged"}}}`)

	l := New(Options{SearchPath: []string{dir}, MergeExtensions: []string{"java"}}, nil)
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded := l.LoadedAdl()
	d := loaded.Modules[len(loaded.Modules)-1].Decls["S"]
	if len(d.Annotations) != 1 {
		t.Fatalf("expected sidecar annotation to be merged onto S, got %+v", d.Annotations)
	}
}
