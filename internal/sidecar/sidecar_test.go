package sidecar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/diagnostic"
	"github.com/adl-lang/adlc/internal/parser"
)

func writeSidecar(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, err := parser.Parse("demo.adl", src)
	require.NoError(t, err)
	return mod
}

func TestDiscoverFindsExistingSidecarsInOrder(t *testing.T) {
	dir := t.TempDir()
	adlPath := filepath.Join(dir, "demo.adl")
	require.NoError(t, os.WriteFile(adlPath, []byte("module demo {};"), 0o644))
	writeSidecar(t, dir, "demo.adl-java", "{}")
	writeSidecar(t, dir, "demo.adl-rust", "{}")

	found := Discover(adlPath, []string{"java", "py", "rust"})
	require.Equal(t, []string{adlPath + "-java", adlPath + "-rust"}, found)
}

func TestDiscoverSkipsMissingExtensions(t *testing.T) {
	dir := t.TempDir()
	adlPath := filepath.Join(dir, "demo.adl")
	require.NoError(t, os.WriteFile(adlPath, []byte("module demo {};"), 0o644))

	found := Discover(adlPath, []string{"java"})
	require.Empty(t, found)
}

func TestMergeAppliesDeclAndFieldAnnotations(t *testing.T) {
	dir := t.TempDir()
	mod := parseModule(t, `module demo {
	struct Tag { Bool v; };
	struct S { Int32 x; };
};`)
	adlPath := filepath.Join(dir, "demo.adl")
	require.NoError(t, os.WriteFile(adlPath, []byte("module demo {};"), 0o644))
	writeSidecar(t, dir, "demo.adl-java", `{
	"S": {
		"annotations": {"Tag": {"v": true}},
		"fields": {"x": {"annotations": {"Tag": {"v": false}}}}
	}
}`)

	diags := diagnostic.New()
	require.NoError(t, Merge(mod, adlPath, []string{"java"}, diags))

	var s *ast.Decl
	for _, d := range mod.Decls {
		if d.Name == "S" {
			s = d
		}
	}
	require.NotNil(t, s)
	require.Len(t, s.Annotations, 1)
	require.Equal(t, map[string]any{"v": true}, s.Annotations[0].Value.Value)

	field := s.Body.(*ast.StructBody).Fields[0]
	require.Len(t, field.Annotations, 1)
	require.Equal(t, map[string]any{"v": false}, field.Annotations[0].Value.Value)
}

func TestMergeLastSidecarWins(t *testing.T) {
	dir := t.TempDir()
	mod := parseModule(t, `module demo {
	struct Tag { Bool v; };
	struct S { Int32 x; };
};`)
	adlPath := filepath.Join(dir, "demo.adl")
	require.NoError(t, os.WriteFile(adlPath, []byte("module demo {};"), 0o644))
	writeSidecar(t, dir, "demo.adl-java", `{"S": {"annotations": {"Tag": "first"}}}`)
	writeSidecar(t, dir, "demo.adl-rust", `{"S": {"annotations": {"Tag": "second"}}}`)

	diags := diagnostic.New()
	require.NoError(t, Merge(mod, adlPath, []string{"java", "rust"}, diags))

	var s *ast.Decl
	for _, d := range mod.Decls {
		if d.Name == "S" {
			s = d
		}
	}
	require.NotNil(t, s)
	require.Len(t, s.Annotations, 1)
	require.Equal(t, "second", s.Annotations[0].Value.Value)
}

func TestMergeUnknownDeclWarnsNotFatal(t *testing.T) {
	dir := t.TempDir()
	mod := parseModule(t, `module demo { struct S { Int32 x; }; };`)
	adlPath := filepath.Join(dir, "demo.adl")
	require.NoError(t, os.WriteFile(adlPath, []byte("module demo {};"), 0o644))
	writeSidecar(t, dir, "demo.adl-java", `{"Missing": {"annotations": {"Doc": "nope"}}}`)

	diags := diagnostic.New()
	require.NoError(t, Merge(mod, adlPath, []string{"java"}, diags))
	require.NotEmpty(t, diags.All())
}

func TestMergeUnknownFieldWarnsNotFatal(t *testing.T) {
	dir := t.TempDir()
	mod := parseModule(t, `module demo { struct S { Int32 x; }; };`)
	adlPath := filepath.Join(dir, "demo.adl")
	require.NoError(t, os.WriteFile(adlPath, []byte("module demo {};"), 0o644))
	writeSidecar(t, dir, "demo.adl-java", `{"S": {"fields": {"missing": {"annotations": {"Doc": "nope"}}}}}`)

	diags := diagnostic.New()
	require.NoError(t, Merge(mod, adlPath, []string{"java"}, diags))
	require.NotEmpty(t, diags.All())
}

func TestMergeInvalidJSONReturnsAnnotationShapeError(t *testing.T) {
	dir := t.TempDir()
	mod := parseModule(t, `module demo { struct S { Int32 x; }; };`)
	adlPath := filepath.Join(dir, "demo.adl")
	require.NoError(t, os.WriteFile(adlPath, []byte("module demo {};"), 0o644))
	writeSidecar(t, dir, "demo.adl-java", `not json`)

	err := Merge(mod, adlPath, []string{"java"}, diagnostic.New())
	require.Error(t, err)
	de, ok := err.(*diagnostic.Error)
	require.True(t, ok)
	require.Equal(t, diagnostic.AnnotationShapeError, de.Kind)
}

func TestMergeNoSidecarsIsNoop(t *testing.T) {
	dir := t.TempDir()
	mod := parseModule(t, `module demo { struct S { Int32 x; }; };`)
	adlPath := filepath.Join(dir, "demo.adl")
	require.NoError(t, os.WriteFile(adlPath, []byte("module demo {};"), 0o644))

	require.NoError(t, Merge(mod, adlPath, []string{"java"}, diagnostic.New()))
	for _, d := range mod.Decls {
		require.Empty(t, d.Annotations)
	}
}
