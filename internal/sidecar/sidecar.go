// Package sidecar implements spec.md §4.3: discovering and merging
// annotation sidecar files onto a parsed-but-not-yet-resolved module.
// Merging happens at the internal/ast level, before the resolver runs,
// per spec.md §4.2's ordering rule ("sidecars for module M are loaded
// immediately after M is parsed and before M's resolver pass").
//
// Net new (no direct teacher analogue), following
// internal/compiler/registry.go's file-discovery idiom for walking a
// search path; assertions use testify/require per SPEC_FULL.md §8's
// note that net-new packages adopt the pack's alternative test idiom.
package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/diagnostic"
)

type declOverlay struct {
	Annotations map[string]json.RawMessage `json:"annotations"`
	Fields      map[string]fieldOverlay    `json:"fields"`
}

type fieldOverlay struct {
	Annotations map[string]json.RawMessage `json:"annotations"`
}

// parseFile decodes a sidecar's raw JSON object, whose top-level keys
// are decl names (spec.md §4.3), into the typed shape above.
func parseFile(data []byte) (map[string]declOverlay, error) {
	var raw map[string]declOverlay
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Discover returns the sidecar file paths that apply to an ADL source
// file at adlPath, one per configured extension, in extension-list
// order, for those that actually exist on disk. The candidate path for
// each extension is adlPath + "-" + ext, so extension "java" names the
// sidecar "M.adl-java" for "M.adl"; an extension already spelled
// "adl-java" would name "M.adl-adl-java".
func Discover(adlPath string, extensions []string) []string {
	var found []string
	for _, ext := range extensions {
		candidate := adlPath + "-" + ext
		if _, err := os.Stat(candidate); err == nil {
			found = append(found, candidate)
		}
	}
	return found
}

// Merge overlays every sidecar file found for adlPath onto mod,
// mutating mod's decl and field Annotations in place: within one
// sidecar, a later key always overwrites an earlier one for the same
// (decl, annotation) pair, and across multiple sidecars the last one
// merged (in extensions' search-path order) wins, per spec.md §4.3
// and §9's "sidecar precedence" note. Unknown decl names produce a
// warning on diags, never a fatal error, per spec.md §4.3: scoping is
// to the owning .adl file only.
func Merge(mod *ast.Module, adlPath string, extensions []string, diags *diagnostic.Diagnostics) error {
	for _, path := range Discover(adlPath, extensions) {
		data, err := os.ReadFile(path)
		if err != nil {
			return diagnostic.Errorf(diagnostic.IOError, path, 0, 0, "reading sidecar: %v", err)
		}
		overlay, err := parseFile(data)
		if err != nil {
			return diagnostic.Errorf(diagnostic.AnnotationShapeError, path, 0, 0, "invalid sidecar JSON: %v", err)
		}
		if err := mergeOne(mod, path, overlay, diags); err != nil {
			return err
		}
	}
	return nil
}

func mergeOne(mod *ast.Module, sidecarPath string, overlay map[string]declOverlay, diags *diagnostic.Diagnostics) error {
	declsByName := make(map[ast.Identifier]*ast.Decl, len(mod.Decls))
	for _, d := range mod.Decls {
		declsByName[d.Name] = d
	}

	for declName, do := range overlay {
		d, ok := declsByName[ast.Identifier(declName)]
		if !ok {
			diags.Warnf(sidecarPath, 0, 0, "sidecar references unknown declaration %q in module %s", declName, mod.Name)
			continue
		}
		if err := applyAnnotations(&d.Annotations, do.Annotations, sidecarPath); err != nil {
			return err
		}

		if len(do.Fields) == 0 {
			continue
		}
		fields := declFields(d)
		fieldsByName := make(map[string]*ast.Field, len(fields))
		for _, f := range fields {
			fieldsByName[string(f.Name)] = f
		}
		for fieldName, fo := range do.Fields {
			f, ok := fieldsByName[fieldName]
			if !ok {
				diags.Warnf(sidecarPath, 0, 0, "sidecar references unknown field %q on %q in module %s", fieldName, declName, mod.Name)
				continue
			}
			if err := applyAnnotations(&f.Annotations, fo.Annotations, sidecarPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func declFields(d *ast.Decl) []*ast.Field {
	switch body := d.Body.(type) {
	case *ast.StructBody:
		return body.Fields
	case *ast.UnionBody:
		return body.Fields
	default:
		return nil
	}
}

// applyAnnotations decodes each raw annotation value and overlays it
// onto anns, overwriting any existing entry under the same name.
func applyAnnotations(anns *ast.Annotations, raw map[string]json.RawMessage, sidecarPath string) error {
	for name, rawVal := range raw {
		sn, err := parseScopedName(name)
		if err != nil {
			return diagnostic.Errorf(diagnostic.AnnotationShapeError, sidecarPath, 0, 0, "invalid annotation key %q: %v", name, err)
		}
		var v any
		if len(rawVal) > 0 {
			if err := json.Unmarshal(rawVal, &v); err != nil {
				return diagnostic.Errorf(diagnostic.AnnotationShapeError, sidecarPath, 0, 0, "invalid annotation value for %q: %v", name, err)
			}
		}
		lit, err := ast.NewLiteral(v, 0, 0)
		if err != nil {
			return err
		}
		setAnnotation(anns, sn, lit)
	}
	return nil
}

func setAnnotation(anns *ast.Annotations, name ast.ScopedName, value *ast.Literal) {
	for i, a := range *anns {
		if scopedNameEq(a.Name, name) {
			(*anns)[i].Value = value
			return
		}
	}
	*anns = append(*anns, &ast.Annotation{Name: name, Value: value})
}

// scopedNameEq compares two ast.ScopedName values field-by-field,
// since ScopedName embeds a slice (ModuleName) and so is not a
// comparable type.
func scopedNameEq(a, b ast.ScopedName) bool {
	if a.Name != b.Name || len(a.ModuleName) != len(b.ModuleName) {
		return false
	}
	for i := range a.ModuleName {
		if a.ModuleName[i] != b.ModuleName[i] {
			return false
		}
	}
	return true
}

// parseScopedName splits a dotted sidecar annotation key into an
// ast.ScopedName, the final segment being the Name.
func parseScopedName(s string) (ast.ScopedName, error) {
	if s == "" {
		return ast.ScopedName{}, fmt.Errorf("empty annotation key")
	}
	parts := splitDotted(s)
	if len(parts) == 1 {
		return ast.ScopedName{Name: ast.Identifier(parts[0])}, nil
	}
	mod := make(ast.ModuleName, len(parts)-1)
	for i, p := range parts[:len(parts)-1] {
		mod[i] = ast.Identifier(p)
	}
	return ast.ScopedName{ModuleName: mod, Name: ast.Identifier(parts[len(parts)-1])}, nil
}

func splitDotted(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// SidecarPathFor returns the on-disk .adl path's directory, mostly a
// readability helper for callers building diagnostics.
func SidecarPathFor(adlPath string) string {
	return filepath.Dir(adlPath)
}
